package capture

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/AloisH/capture-cli/internal/testutil"
)

func TestDefaultStore(t *testing.T) {
	home := testutil.SetupTestEnv(t)

	s, err := DefaultStore()
	if err != nil {
		t.Fatalf("DefaultStore() error = %v", err)
	}

	want := filepath.Join(home, ".capture")
	if s.Base() != want {
		t.Errorf("Base() = %q, want %q", s.Base(), want)
	}
	if got := s.Dir("foo"); got != filepath.Join(want, "foo") {
		t.Errorf("Dir(foo) = %q", got)
	}
}

func TestStoreLogPath(t *testing.T) {
	s := NewStore("/tmp/x/.capture")

	if got := s.LogPath("web", false); got != "/tmp/x/.capture/web/stdout.log" {
		t.Errorf("stdout path = %q", got)
	}
	if got := s.LogPath("web", true); got != "/tmp/x/.capture/web/stderr.log" {
		t.Errorf("stderr path = %q", got)
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple", input: "web"},
		{name: "dashes_and_dots", input: "api-server.v2"},
		{name: "empty", input: "", wantErr: true},
		{name: "dot", input: ".", wantErr: true},
		{name: "dotdot", input: "..", wantErr: true},
		{name: "slash", input: "a/b", wantErr: true},
		{name: "backslash", input: `a\b`, wantErr: true},
		{name: "traversal", input: "../etc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidName) {
				t.Errorf("expected ErrInvalidName, got %v", err)
			}
		})
	}
}

func TestStoreNames(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), ".capture"))

	names, err := s.Names()
	if err != nil || names != nil {
		t.Fatalf("Names() on missing base = %v, %v; want nil, nil", names, err)
	}

	for _, n := range []string{"zeta", "alpha", "mid"} {
		if err := os.MkdirAll(s.Dir(n), 0755); err != nil {
			t.Fatal(err)
		}
	}
	// stray files are not captures
	if err := os.WriteFile(filepath.Join(s.Base(), "start.lock"), nil, 0600); err != nil {
		t.Fatal(err)
	}

	names, err = s.Names()
	if err != nil {
		t.Fatalf("Names() error = %v", err)
	}
	if want := []string{"alpha", "mid", "zeta"}; !reflect.DeepEqual(names, want) {
		t.Errorf("Names() = %v, want %v", names, want)
	}
}

func TestStoreReset(t *testing.T) {
	s := NewStore(t.TempDir())
	seedCapture(t, s, "web", NewMeta(1, []string{"old"}), "old output\n", "")

	if err := s.Reset("web"); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	entries, err := os.ReadDir(s.Dir("web"))
	if err != nil {
		t.Fatalf("capture dir missing: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Reset() left %d entries behind", len(entries))
	}
}

func TestNotFoundError(t *testing.T) {
	err := error(&NotFoundError{Name: "web"})

	if err.Error() != "no capture 'web'" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrNoCapture) {
		t.Error("NotFoundError should match ErrNoCapture")
	}
}
