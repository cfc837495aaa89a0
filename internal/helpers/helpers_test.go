package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Sự Kiện Tết 2025", "su-kien-tet-2025"},
		{"Đại Hội Server", "dai-hoi-server"},
		{"  Hello   World  ", "hello-world"},
		{"Rank VIP++", "rank-vip"},
		{"đã--có---slug", "da-co-slug"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Slugify(c.in), "input %q", c.in)
	}
}

func TestOrderCodeUsesLastSixUppercased(t *testing.T) {
	assert.Equal(t, "DH-3C4D5E", OrderCode("a1b2f0e9-0000-0000-0000-00003c4d5e"))
	assert.Equal(t, "DH-AB", OrderCode("ab"))
	assert.Equal(t, "DH-UNKNOWN", OrderCode(""))
	assert.Equal(t, "LH-3C4D5E", ContactCode("00003c4d5e"))
}

func TestExtractMessageID(t *testing.T) {
	assert.Equal(t, "12345", ExtractMessageID("paid via bank [msg_id:12345]"))
	assert.Empty(t, ExtractMessageID("no tag here"))
	assert.Empty(t, ExtractMessageID("[msg_id:notdigits]"))
}

func TestAppendMessageIDReplacesPreviousTag(t *testing.T) {
	notes := AppendMessageID("chờ xác nhận", "111")
	assert.Equal(t, "chờ xác nhận [msg_id:111]", notes)

	notes = AppendMessageID(notes, "222")
	assert.Equal(t, "chờ xác nhận [msg_id:222]", notes)

	assert.Equal(t, "[msg_id:333]", AppendMessageID("", "333"))
}
