package publicsuffix

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
)

// defaultList holds the process-wide list. It starts empty and is populated
// from the embedded snapshot on first use, so programs that build their own
// List never pay for parsing the snapshot.
var defaultList atomic.Pointer[List]

// Default returns the process-wide list, building it from the embedded
// snapshot on first use.
func Default() *List {
	if l := defaultList.Load(); l != nil {
		return l
	}

	var l, err = NewListFromString(embeddedList, nil)
	if err != nil {
		panic(fmt.Sprintf("publicsuffix: initialising from embedded list: %s", err.Error()))
	}
	l.release = embeddedListRelease

	// Another goroutine may have raced us here; either snapshot wins.
	defaultList.CompareAndSwap(nil, l)

	return defaultList.Load()
}

// SetDefault replaces the process-wide list used by the package level
// functions. In-flight queries keep the list they started with.
func SetDefault(l *List) {
	defaultList.Store(l)
}

// ResetDefault discards any replacement and returns the package to the
// embedded snapshot.
func ResetDefault() {
	defaultList.Store(nil)
}

// Update fetches the latest public suffix list from the official github
// repository and uses it for future lookups.
//
//	https://github.com/publicsuffix/list
//
// The list is only rebuilt when the repository reports a release newer than
// the one currently loaded.
func Update(ctx context.Context) error {
	return UpdateWithListRetriever(ctx, gitHubListRetriever{})
}

// UpdateWithListRetriever attempts to update the default list using
// listRetriever as a data source.
//
// UpdateWithListRetriever is provided to allow callers to provide custom
// update sources, such as reading from a network store or local cache
// instead of fetching from the GitHub repository.
func UpdateWithListRetriever(ctx context.Context, listRetriever ListRetriever) error {
	var latestTag, err = listRetriever.GetLatestReleaseTag(ctx)
	if err != nil {
		return fmt.Errorf("publicsuffix: retrieving last commit information: %w", err)
	}

	if latestTag == "" || Default().Release() == latestTag {
		return nil
	}

	rawList, err := listRetriever.GetList(ctx, latestTag)
	if err != nil {
		return fmt.Errorf("publicsuffix: retrieving release %s: %w", latestTag, err)
	}

	l, err := NewList(rawList, nil)
	if err != nil {
		return err
	}
	l.release = latestTag

	SetDefault(l)

	return nil
}

// Lookup calls Default().Lookup.
func Lookup(domain string, opts *LookupOptions) (Match, bool) {
	return Default().Lookup(domain, opts)
}

// PublicSuffix calls Default().PublicSuffix.
func PublicSuffix(domain string, opts *LookupOptions) (string, bool) {
	return Default().PublicSuffix(domain, opts)
}

// TopLevelDomain calls Default().TopLevelDomain.
func TopLevelDomain(domain string, opts *LookupOptions) (string, bool) {
	return Default().TopLevelDomain(domain, opts)
}

// RegistrableDomain calls Default().RegistrableDomain.
func RegistrableDomain(domain string, opts *LookupOptions) (string, bool) {
	return Default().RegistrableDomain(domain, opts)
}

// EffectiveTLDPlusOne calls Default().EffectiveTLDPlusOne.
func EffectiveTLDPlusOne(domain string) (string, error) {
	return Default().EffectiveTLDPlusOne(domain)
}

// HasPublicSuffix calls Default().HasPublicSuffix.
func HasPublicSuffix(domain string) bool {
	return Default().HasPublicSuffix(domain)
}

// Release returns the release of the current default list.
func Release() string {
	return Default().Release()
}

// Write serialises the current default list to w; see List.Write.
func Write(w io.Writer) error {
	return Default().Write(w)
}

// Read loads a list serialised by Write and installs it as the default for
// future lookups.
func Read(r io.Reader) error {
	var l, err = ReadList(r)
	if err != nil {
		return err
	}

	SetDefault(l)

	return nil
}
