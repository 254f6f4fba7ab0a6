package blueprint

import (
	"strings"
	"testing"

	"github.com/jodiecunningham/blueprint/pkg/errors"
)

func sampleBlueprint() *Blueprint {
	b := New("web1")
	b.SetArch("amd64")
	b.AddPackage("apt", "curl", "7.1")
	b.AddPackage("apt", "pip", "1.0")
	b.AddPackage("pip", "flask", "1.0")
	b.Files["/etc/motd"] = FileEntry{
		Content:  "welcome\n",
		Encoding: EncodingRaw,
		Group:    "root",
		Mode:     "000644",
		Owner:    "root",
	}
	b.Sources["/usr/local"] = "app-1.0.tar.gz"
	b.SourceData["app-1.0.tar.gz"] = []byte("tarball")
	return b
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	b := sampleBlueprint()

	data, err := Encode(b)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if !decoded.Equal(b) {
		t.Errorf("decode(encode(d)) != d\nencoded: %s", data)
	}

	// Re-encoding a decoded document must be byte-identical.
	again, err := Encode(decoded)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if string(again) != string(data) {
		t.Errorf("encode(decode(encode(d))) differs:\nfirst:  %s\nsecond: %s", data, again)
	}
}

func TestEncodeOmitsAbsentKeys(t *testing.T) {
	b := New("empty")
	data, err := Encode(b)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	for _, key := range []string{"arch", "files", "packages", "sources"} {
		if strings.Contains(string(data), `"`+key+`"`) {
			t.Errorf("empty document encoding contains %q: %s", key, data)
		}
	}
	if string(data) != "{}" {
		t.Errorf("empty document = %s, want {}", data)
	}
}

func TestEncodeEmptyVersusAbsent(t *testing.T) {
	// Identical effective content must serialize identically regardless
	// of whether collections are nil or present-but-empty.
	var withNils Blueprint
	withEmpties := New("x")

	a, err := Encode(&withNils)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	b, err := Encode(withEmpties)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if string(a) != string(b) {
		t.Errorf("nil and empty collections encode differently: %s vs %s", a, b)
	}
}

func TestEncodeKeepsEmptyArchString(t *testing.T) {
	b := New("x")
	b.SetArch("")
	data, err := Encode(b)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if !strings.Contains(string(data), `"arch": ""`) {
		t.Errorf("present-but-empty arch should survive encoding: %s", data)
	}
}

func TestDecodeAbsentSafe(t *testing.T) {
	b, err := Decode([]byte("{}"))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if b.Arch != nil {
		t.Errorf("Arch = %v, want nil", *b.Arch)
	}
	if b.Files == nil || b.Packages == nil || b.Sources == nil {
		t.Error("decoded collections should be initialized empty, not nil")
	}
	if len(b.Files)+len(b.Packages)+len(b.Sources) != 0 {
		t.Error("decoded collections should be empty")
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{`},
		{"wrong packages shape", `{"packages": {"apt": ["curl"]}}`},
		{"file missing owner", `{"files": {"/etc/motd": {"content": "x", "encoding": "raw", "group": "root", "mode": "000644"}}}`},
		{"file bad mode", `{"files": {"/etc/motd": {"content": "x", "encoding": "raw", "group": "root", "mode": "rw-r--r--", "owner": "root"}}}`},
		{"file unknown encoding", `{"files": {"/etc/motd": {"content": "x", "encoding": "hex", "group": "root", "mode": "000644", "owner": "root"}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			if !errors.Is(err, errors.ErrCodeMalformedDocument) {
				t.Errorf("Decode = %v, want MALFORMED_DOCUMENT", err)
			}
		})
	}
}

func TestFileEntryDecodedContent(t *testing.T) {
	raw := FileEntry{Content: "hello", Encoding: EncodingRaw}
	data, err := raw.DecodedContent()
	if err != nil {
		t.Fatalf("DecodedContent error: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("raw content = %q", data)
	}

	b64 := FileEntry{Content: "aGVsbG8=", Encoding: EncodingBase64}
	data, err = b64.DecodedContent()
	if err != nil {
		t.Fatalf("DecodedContent error: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("base64 content = %q", data)
	}

	bad := FileEntry{Content: "!!!", Encoding: EncodingBase64}
	if _, err := bad.DecodedContent(); err == nil {
		t.Error("invalid base64 should fail to decode")
	}
}

func TestFileEntryIsSymlink(t *testing.T) {
	for mode, want := range map[string]bool{
		"120000": true,
		"120777": true,
		"000644": false,
		"100755": false,
	} {
		entry := FileEntry{Mode: mode}
		if got := entry.IsSymlink(); got != want {
			t.Errorf("IsSymlink(%s) = %v, want %v", mode, got, want)
		}
	}
}
