/*
Copyright 2023 The Suffixlist Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package publicsuffix

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ListRetriever is the interface for retrieving release information/content
type ListRetriever interface {
	GetLatestReleaseTag(ctx context.Context) (string, error)
	GetList(ctx context.Context, release string) (io.Reader, error)
}

// gitHubListRetriever implements the ListRetriever using github
type gitHubListRetriever struct {
	client *http.Client
}

// releaseInfo decodes the sha field from the commit information
type releaseInfo struct {
	SHA string `json:"sha"`
}

var (
	gitCommitURL    = "https://api.github.com/repos/publicsuffix/list/commits?path=public_suffix_list.dat"
	publicSuffixURL = "https://raw.githubusercontent.com/publicsuffix/list/%s/public_suffix_list.dat"
)

// NewGitHubListRetriever creates a new ListRetriever with a custom HTTP client.
func NewGitHubListRetriever(client *http.Client) ListRetriever {
	return gitHubListRetriever{
		client: client,
	}
}

// GetLatestReleaseTag retrieves the tag for the latest commit touching the
// list file in the publicsuffix/list repository.
func (gh gitHubListRetriever) GetLatestReleaseTag(ctx context.Context) (string, error) {
	var body, err = gh.get(ctx, gitCommitURL)
	if err != nil {
		return "", fmt.Errorf("retrieving last release information from github: %w", err)
	}

	var releaseInfo []releaseInfo
	if err = json.NewDecoder(body).Decode(&releaseInfo); err != nil {
		return "", fmt.Errorf("decoding release info: %w", err)
	}

	if len(releaseInfo) == 0 || releaseInfo[0].SHA == "" {
		return "", errors.New("no release info found from github")
	}

	return releaseInfo[0].SHA, nil
}

// GetList retrieves the given release of the public suffix list from the
// github repository.
func (gh gitHubListRetriever) GetList(ctx context.Context, release string) (io.Reader, error) {
	var url = fmt.Sprintf(publicSuffixURL, release)

	var body, err = gh.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("retrieving list release %s: %w", release, err)
	}

	return body, nil
}

// get performs a GET against url and buffers the whole response, so that the
// connection is released before parsing starts.
func (gh gitHubListRetriever) get(ctx context.Context, url string) (io.Reader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	// Just in case a nil client was passed, use the default http client.
	var client = http.DefaultClient
	if gh.client != nil {
		client = gh.client
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, res.StatusCode)
	}

	var buf = &bytes.Buffer{}
	if _, err := io.Copy(buf, res.Body); err != nil {
		return nil, err
	}

	return buf, nil
}
