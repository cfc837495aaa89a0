package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// MinecraftStatus is the interesting slice of the mcsrvstat.us response.
type MinecraftStatus struct {
	Online     bool
	Players    string
	MaxPlayers string
	Version    string
}

type MinecraftStatusClient interface {
	FetchStatus(ctx context.Context, serverAddress string) (*MinecraftStatus, error)
}

type mcStatusClientImpl struct {
	httpClient *http.Client
	baseURL    string
}

func NewMinecraftStatusClient(baseURL string) MinecraftStatusClient {
	return &mcStatusClientImpl{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: baseURL,
	}
}

func (c *mcStatusClientImpl) FetchStatus(ctx context.Context, serverAddress string) (*MinecraftStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+serverAddress, nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status api: status %d", resp.StatusCode)
	}

	var res struct {
		Online  bool `json:"online"`
		Players struct {
			Online int `json:"online"`
			Max    int `json:"max"`
		} `json:"players"`
		Version json.RawMessage `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode status response: %w", err)
	}

	status := &MinecraftStatus{
		Online:     res.Online,
		Players:    strconv.Itoa(res.Players.Online),
		MaxPlayers: strconv.Itoa(res.Players.Max),
	}
	// The API reports version either as a plain string or an object with a
	// names.clean list, depending on the server.
	var versionStr string
	if err := json.Unmarshal(res.Version, &versionStr); err == nil {
		status.Version = versionStr
	} else {
		var versionObj struct {
			Names struct {
				Clean string `json:"clean"`
			} `json:"names"`
		}
		if err := json.Unmarshal(res.Version, &versionObj); err == nil {
			status.Version = versionObj.Names.Clean
		}
	}
	return status, nil
}
