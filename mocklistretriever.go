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
	"context"
	"io"
	"strings"
	"sync/atomic"
)

// mockListRetriever implements a mock of the ListRetriever for testing
type mockListRetriever struct {
	Release string
	RawList string
	Err     error

	calls atomic.Int64
}

// GetLatestReleaseTag mocks the release retrieval
func (m *mockListRetriever) GetLatestReleaseTag(ctx context.Context) (string, error) {
	m.calls.Add(1)

	return m.Release, m.Err
}

// GetList mocks the list retrieval
func (m *mockListRetriever) GetList(ctx context.Context, release string) (io.Reader, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	return strings.NewReader(m.RawList), nil
}

// Calls returns how many times GetLatestReleaseTag has been invoked.
func (m *mockListRetriever) Calls() int {
	return int(m.calls.Load())
}
