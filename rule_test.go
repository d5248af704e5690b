package publicsuffix

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

func Test_Parse(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		var input = `// Instructions on pulling and using this list can be found at https://publicsuffix.org/list/.

// ===BEGIN ICANN DOMAINS===

// ac : https://en.wikipedia.org/wiki/.ac
ac
com.ac
edu.ac
gov.ac
net.ac
mil.ac
org.ac

// ===END ICANN DOMAINS===
// ===BEGIN PRIVATE DOMAINS===

blogspot.com

// ===END PRIVATE DOMAINS===
`
		var rules, err = Parse(strings.NewReader(input), nil)
		if err != nil {
			t.Fatalf("unexpected error: %s", err.Error())
		}

		if len(rules) != 8 {
			t.Fatalf("got: %d rules, want: %d", len(rules), 8)
		}

		if !rules[0].ICANN {
			t.Fatalf("icann should be true, got: %v", rules[0].ICANN)
		}

		var last = rules[len(rules)-1]
		if last.ICANN {
			t.Fatalf("icann should be false for private rules, got: %v", last.ICANN)
		}
		if want := []string{"blogspot", "com"}; len(last.Labels) != 2 ||
			last.Labels[0] != want[0] || last.Labels[1] != want[1] {
			t.Fatalf("got: %v, want: %v", last.Labels, want)
		}
	})

	t.Run("Rule type checks", func(t *testing.T) {
		var tests = []struct {
			input    string
			expected RuleType
		}{
			{"!ac", ExceptionType},
			{"*.ac", WildcardType},
			{"ac", NormalType},
		}

		for _, tt := range tests {
			var tt = tt
			t.Run(tt.input, func(t *testing.T) {
				var rules, err = Parse(strings.NewReader(tt.input), nil)
				if err != nil {
					t.Fatalf("unexpected error: %s", err.Error())
				}
				if len(rules) != 1 {
					t.Fatalf("got: %d rules, want: 1", len(rules))
				}
				if rules[0].Type != tt.expected {
					t.Fatalf("got: %v, want: %v", rules[0].Type, tt.expected)
				}
			})
		}
	})

	t.Run("Malformed lines are skipped", func(t *testing.T) {
		var input = `com
a..b
*
!
*.*.bad
ac
`
		var rules, err = Parse(strings.NewReader(input), nil)
		if err != nil {
			t.Fatalf("unexpected error: %s", err.Error())
		}
		if len(rules) != 2 {
			t.Fatalf("got: %d rules, want: 2", len(rules))
		}
		if rules[0].String() != "com" || rules[1].String() != "ac" {
			t.Fatalf("got: %v, %v, want: com, ac", rules[0], rules[1])
		}
	})

	t.Run("Names are canonicalised", func(t *testing.T) {
		var tests = []struct {
			input string
			want  string
		}{
			{"COM", "com"},
			{"中国", "xn--fiqs8s"},
			{"*.KOBE.jp", "*.kobe.jp"},
			{"com // inline note", "com"},
		}

		for _, tt := range tests {
			var tt = tt
			t.Run(tt.input, func(t *testing.T) {
				var rules, err = Parse(strings.NewReader(tt.input), nil)
				if err != nil {
					t.Fatalf("unexpected error: %s", err.Error())
				}
				if len(rules) != 1 {
					t.Fatalf("got: %d rules, want: 1", len(rules))
				}
				if got := rules[0].String(); got != tt.want {
					t.Fatalf("got: %q, want: %q", got, tt.want)
				}
			})
		}
	})

	t.Run("IDNA disabled keeps unicode entries", func(t *testing.T) {
		var input = "com\n中国\n*.中国\n\xff\xfe.cn\n"

		var rules, err = Parse(strings.NewReader(input), &ParseOptions{IDNA: false})
		if err != nil {
			t.Fatalf("unexpected error: %s", err.Error())
		}
		if len(rules) != 3 {
			t.Fatalf("got: %d rules, want: 3", len(rules))
		}
		if rules[1].String() != "中国" || rules[2].String() != "*.中国" {
			t.Fatalf("got: %v, %v, want unicode names kept as written", rules[1], rules[2])
		}
	})

	t.Run("Reader errors surface as ParseError", func(t *testing.T) {
		var _, err = Parse(iotest.ErrReader(errTest), nil)
		if err == nil {
			t.Fatal("expected an error, got nil")
		}

		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("got %T, want *ParseError", err)
		}
		if !errors.Is(err, errTest) {
			t.Fatalf("error chain does not contain the reader error: %v", err)
		}
	})
}

func Test_RuleString(t *testing.T) {
	var tests = []struct {
		rule Rule
		want string
	}{
		{Rule{Labels: []string{"com"}, Type: NormalType}, "com"},
		{Rule{Labels: []string{"kobe", "jp"}, Type: WildcardType}, "*.kobe.jp"},
		{Rule{Labels: []string{"city", "kobe", "jp"}, Type: ExceptionType}, "!city.kobe.jp"},
	}

	for _, tt := range tests {
		var tt = tt
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.rule.String(); got != tt.want {
				t.Errorf("got: %q, want: %q", got, tt.want)
			}
		})
	}
}
