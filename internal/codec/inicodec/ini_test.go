package inicodec

import (
	"reflect"
	"strings"
	"testing"

	"github.com/discochess/stockroom/internal/tablemap"
)

func decodeToPlain(t *testing.T, data string) map[string]map[string]any {
	t.Helper()
	m, err := New().Decode([]byte(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	out := make(map[string]map[string]any)
	for _, name := range m.Names() {
		tbl, _ := m.Table(name)
		plain := make(map[string]any)
		for _, e := range tbl.Entries() {
			plain[e.Key] = e.Value
		}
		out[name] = plain
	}
	return out
}

func TestDecode_TypedValues(t *testing.T) {
	got := decodeToPlain(t, "[default]\na = 1\nb = \"x\"\n\n")

	want := map[string]map[string]any{
		"default": {
			"a": float64(1),
			"b": "x",
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Decode() = %v, want %v", got, want)
	}
}

func TestDecode_Tolerance(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]map[string]any
	}{
		{
			name:  "lines before first section are ignored",
			input: "stray = 1\n[t]\nk = 2\n",
			want:  map[string]map[string]any{"t": {"k": float64(2)}},
		},
		{
			name:  "repeated key keeps last value",
			input: "[t]\nk = 1\nk = 2\n",
			want:  map[string]map[string]any{"t": {"k": float64(2)}},
		},
		{
			name:  "repeated section merges",
			input: "[t]\na = 1\n\n[u]\nx = 0\n\n[t]\nb = 2\na = 3\n",
			want: map[string]map[string]any{
				"t": {"a": float64(3), "b": float64(2)},
				"u": {"x": float64(0)},
			},
		},
		{
			name:  "line without equals is ignored",
			input: "[t]\ngarbage line\nk = 1\n",
			want:  map[string]map[string]any{"t": {"k": float64(1)}},
		},
		{
			name:  "undecodable value falls back to raw string",
			input: "[t]\nk = plain old string\n",
			want:  map[string]map[string]any{"t": {"k": "plain old string"}},
		},
		{
			name:  "whitespace around key and value is trimmed",
			input: "[t]\n  k =   7  \n",
			want:  map[string]map[string]any{"t": {"k": float64(7)}},
		},
		{
			name:  "empty input",
			input: "",
			want:  map[string]map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeToPlain(t, tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEncode_Canonical(t *testing.T) {
	m := tablemap.New()
	def := m.Ensure("default")
	def.Set("a", float64(1))
	def.Set("b", "x")
	m.Ensure("other").Set("flag", true)

	data, err := New().Encode(m)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := "[default]\na = 1\nb = \"x\"\n\n[other]\nflag = true\n\n"
	if got := string(data); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	m := tablemap.New()
	tbl := m.Ensure("settings")
	tbl.Set("num", float64(42))
	tbl.Set("neg", float64(-3.5))
	tbl.Set("str", "hello world")
	tbl.Set("flag", false)
	tbl.Set("null", nil)
	tbl.Set("nested", map[string]any{"list": []any{float64(1), "two"}})

	c := New()
	data, err := c.Encode(m)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got := decodeToPlain(t, string(data))
	want := map[string]map[string]any{
		"settings": {
			"num":    float64(42),
			"neg":    float64(-3.5),
			"str":    "hello world",
			"flag":   false,
			"null":   nil,
			"nested": map[string]any{"list": []any{float64(1), "two"}},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip = %v, want %v", got, want)
	}
}

func TestDecode_PreservesFileOrder(t *testing.T) {
	m, err := New().Decode([]byte("[b]\nk = 1\n\n[a]\nk = 2\n\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := []string{"b", "a"}
	if got := m.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func BenchmarkDecode(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("[bench]\n")
	for i := 0; i < 200; i++ {
		sb.WriteString("key")
		sb.WriteString(strings.Repeat("x", i%7))
		sb.WriteString(" = {\"n\": 1, \"s\": \"value\"}\n")
	}
	data := []byte(sb.String())
	c := New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Decode(data); err != nil {
			b.Fatal(err)
		}
	}
}
