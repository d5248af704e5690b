package publicsuffix

import (
	"fmt"
	"net/http/cookiejar"
)

type cookiejarList struct{}

// CookieJarList implements the cookiejar.PublicSuffixList interface against
// the default list, for use with cookiejar.Options.
var CookieJarList cookiejar.PublicSuffixList = cookiejarList{}

func (cookiejarList) PublicSuffix(domain string) string {
	var ps, _ = PublicSuffix(domain, nil)
	return ps
}

func (cookiejarList) String() string {
	return fmt.Sprintf("publicsuffix.org's public_suffix_list.dat, git revision: %s", Release())
}
