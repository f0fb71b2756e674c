package llm

import "testing"

func TestCleanJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced with lang", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced bare", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanJSON(tc.in); got != tc.want {
				t.Errorf("CleanJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseJSONInvalid(t *testing.T) {
	var dst struct{ A int }
	if err := ParseJSON("not json", &dst); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}

func TestParseJSONEmpty(t *testing.T) {
	var dst struct{ A int }
	if err := ParseJSON("   ", &dst); err == nil {
		t.Fatalf("expected error for empty response")
	}
}

func TestFlexibleStringFromString(t *testing.T) {
	var f FlexibleString
	if err := ParseJSON(`"hello"`, &f); err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if f.String() != "hello" {
		t.Errorf("got %q, want hello", f.String())
	}
}

func TestFlexibleStringFromArray(t *testing.T) {
	var f FlexibleString
	if err := ParseJSON(`["hello", "world"]`, &f); err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if f.String() != "hello world" {
		t.Errorf("got %q, want %q", f.String(), "hello world")
	}
}
