package cookies

import (
	"testing"
	"time"
)

func TestParse_NameValueAndAttributes(t *testing.T) {
	c := Parse("sid=abc123; Domain=.example.org; Path=/; Secure; HttpOnly")
	if c.Name != "sid" || c.Value != "abc123" {
		t.Fatalf("unexpected name/value: %q=%q", c.Name, c.Value)
	}
	want := map[string]string{
		"domain":   ".example.org",
		"path":     "/",
		"secure":   "true",
		"httponly": "true",
	}
	got := c.Attrs()
	if len(got) != len(want) {
		t.Fatalf("expected %d attributes, got %d: %v", len(want), len(got), got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("attribute %q = %q, want %q", k, got[k], v)
		}
	}
}

func TestParse_Edges(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantName  string
		wantValue string
		attr      string
		attrValue string
	}{
		{"no equals", "flag", "flag", "true", "", ""},
		{"quoted value", `a="quoted value"; Path=/`, "a", "quoted value", "path", "/"},
		{"lone quote kept", `a="; Path=/`, "a", `"`, "path", "/"},
		{"whitespace trimmed", "  a  =  b  ;   Path = /x ", "a", "b", "path", "/x"},
		{"value with equals", "a=b=c; Domain=x.com", "a", "b=c", "domain", "x.com"},
		{"no space after semicolon", "a=b;Domain=x.com", "a", "b", "domain", "x.com"},
		{"attribute case folded", "a=b; DOMAIN=X.com", "a", "b", "domain", "X.com"},
		{"percent decoded", "a=b; Path=/a%20b", "a", "b", "path", "/a b"},
		{"bad escape kept raw", "a=b; Path=/a%zzb", "a", "b", "path", "/a%zzb"},
		{"invalid utf8 kept raw", "a=b; Path=/%ff", "a", "b", "path", "/%ff"},
		{"value not decoded", "a=x%20y", "a", "x%20y", "", ""},
		{"empty line", "", "", "true", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Parse(tt.line)
			if c.Name != tt.wantName || c.Value != tt.wantValue {
				t.Errorf("Parse(%q) = %q=%q, want %q=%q", tt.line, c.Name, c.Value, tt.wantName, tt.wantValue)
			}
			if tt.attr == "" {
				return
			}
			if v, ok := c.Attr(tt.attr); !ok || v != tt.attrValue {
				t.Errorf("attribute %q = %q (present=%v), want %q", tt.attr, v, ok, tt.attrValue)
			}
		})
	}
}

func TestParse_FirstAttributeWins(t *testing.T) {
	c := Parse("a=b; Domain=first.com; domain=second.com; DOMAIN=third.com")
	if d, _ := c.Attr(AttrDomain); d != "first.com" {
		t.Errorf("expected first domain to win, got %q", d)
	}
}

func TestCookie_WithoutDoesNotMutate(t *testing.T) {
	c := Parse("a=b; Expires=Wed, 21 Oct 2099 07:28:00 GMT; Max-Age=100; Path=/")
	stripped := c.Without(AttrExpires, AttrMaxAge)
	if !c.HasAttr(AttrExpires) || !c.HasAttr(AttrMaxAge) {
		t.Fatal("Without mutated the original cookie")
	}
	if stripped.HasAttr(AttrExpires) || stripped.HasAttr(AttrMaxAge) {
		t.Fatal("Without did not remove attributes")
	}
	if !stripped.HasAttr(AttrPath) {
		t.Fatal("Without removed an unrelated attribute")
	}
}

func TestCookie_EffectiveDomain(t *testing.T) {
	if d := Parse("a=b; Domain=.x.com").EffectiveDomain("req.com"); d != ".x.com" {
		t.Errorf("expected domain attribute, got %q", d)
	}
	if d := Parse("a=b").EffectiveDomain("req.com"); d != "req.com" {
		t.Errorf("expected fallback, got %q", d)
	}
	if d := Parse("a=b; Domain=").EffectiveDomain("req.com"); d != "req.com" {
		t.Errorf("expected fallback for empty domain, got %q", d)
	}
}

func TestParseHeader_MultipleLines(t *testing.T) {
	cs := ParseHeader("a=1; Domain=.a.com\nb=2; Domain=.b.com\r\nc=3")
	if len(cs) != 3 {
		t.Fatalf("expected 3 cookies, got %d", len(cs))
	}
	names := []string{"a", "b", "c"}
	for i, c := range cs {
		if c.Name != names[i] {
			t.Errorf("cookie %d name = %q, want %q", i, c.Name, names[i])
		}
	}
	if d, _ := cs[1].Attr(AttrDomain); d != ".b.com" {
		t.Errorf("expected trailing CR trimmed, got %q", d)
	}
}

func TestNewCookie(t *testing.T) {
	c := NewCookie("n", "v", map[string]string{"Path": "/", "Secure": "true"})
	if !c.HasAttr("path") || !c.HasAttr("secure") {
		t.Fatalf("expected lower-cased keys, got %v", c.Attrs())
	}
	if IsBeingDeleted(c, time.Now()) {
		t.Fatal("cookie without expiry is not a deletion")
	}
}
