package component

import (
	"testing"

	"github.com/occore/occore/internal/sandbox"
	"github.com/occore/occore/internal/signal"
)

func newTestFilesystem(t *testing.T) *Filesystem {
	t.Helper()
	jail, err := sandbox.NewJail(t.TempDir())
	if err != nil {
		t.Fatalf("NewJail: %v", err)
	}
	return NewFilesystem("fs1", "fs0", jail, "", false)
}

func TestFilesystemOpenWriteReadRoundtrip(t *testing.T) {
	fs := newTestFilesystem(t)
	owner := &fakeOwner{}

	openOut, err := fs.Invoke(owner, "open", []signal.Value{signal.String("/a.txt"), signal.String("w")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	fd := openOut[0]

	_, err = fs.Invoke(owner, "write", []signal.Value{fd, signal.String("hello")})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := fs.Invoke(owner, "close", []signal.Value{fd}); err != nil {
		t.Fatalf("close: %v", err)
	}

	openOut2, err := fs.Invoke(owner, "open", []signal.Value{signal.String("/a.txt"), signal.String("r")})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	fd2 := openOut2[0]
	readOut, err := fs.Invoke(owner, "read", []signal.Value{fd2, signal.Number(100)})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if readOut[0].Str != "hello" {
		t.Errorf("got %q, want %q", readOut[0].Str, "hello")
	}
}

func TestFilesystemReadNonPositiveCountClampsToMax(t *testing.T) {
	fs := newTestFilesystem(t)
	owner := &fakeOwner{}

	openOut, err := fs.Invoke(owner, "open", []signal.Value{signal.String("/a.txt"), signal.String("w")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	fd := openOut[0]
	if _, err := fs.Invoke(owner, "write", []signal.Value{fd, signal.String("hello")}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := fs.Invoke(owner, "close", []signal.Value{fd}); err != nil {
		t.Fatalf("close: %v", err)
	}

	for _, n := range []float64{0, -1} {
		openOut2, err := fs.Invoke(owner, "open", []signal.Value{signal.String("/a.txt"), signal.String("r")})
		if err != nil {
			t.Fatalf("reopen: %v", err)
		}
		fd2 := openOut2[0]
		readOut, err := fs.Invoke(owner, "read", []signal.Value{fd2, signal.Number(n)})
		if err != nil {
			t.Fatalf("read with n=%v: %v", n, err)
		}
		if readOut[0].Str != "hello" {
			t.Errorf("read with n=%v: got %q, want %q", n, readOut[0].Str, "hello")
		}
	}
}

func TestFilesystemDescriptorSlotReuse(t *testing.T) {
	fs := newTestFilesystem(t)
	owner := &fakeOwner{}

	out1, _ := fs.Invoke(owner, "open", []signal.Value{signal.String("/a.txt"), signal.String("w")})
	fs.Invoke(owner, "close", []signal.Value{out1[0]})

	out2, _ := fs.Invoke(owner, "open", []signal.Value{signal.String("/b.txt"), signal.String("w")})
	if out2[0].Num != out1[0].Num {
		t.Errorf("expected freed descriptor slot %v to be reused, got %v", out1[0].Num, out2[0].Num)
	}
	fs.Invoke(owner, "close", []signal.Value{out2[0]})
}

func TestFilesystemEscapeRejected(t *testing.T) {
	fs := newTestFilesystem(t)
	owner := &fakeOwner{}

	_, err := fs.Invoke(owner, "open", []signal.Value{signal.String("../../../../etc/passwd"), signal.String("r")})
	if err == nil {
		t.Fatal("expected path escape to be rejected")
	}
}

func TestFilesystemListDirectoryTrailingSlash(t *testing.T) {
	fs := newTestFilesystem(t)
	owner := &fakeOwner{}
	fs.Invoke(owner, "makeDirectory", []signal.Value{signal.String("/sub")})
	o, _ := fs.Invoke(owner, "open", []signal.Value{signal.String("/file.txt"), signal.String("w")})
	fs.Invoke(owner, "close", []signal.Value{o[0]})

	out, err := fs.Invoke(owner, "list", []signal.Value{signal.String("/")})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var sawDir, sawFile bool
	for _, p := range out[0].Table {
		switch p.Value.Str {
		case "sub/":
			sawDir = true
		case "file.txt":
			sawFile = true
		}
	}
	if !sawDir || !sawFile {
		t.Errorf("got %+v", out[0].Table)
	}
}

func TestFilesystemSeekClampsWithinBounds(t *testing.T) {
	fs := newTestFilesystem(t)
	owner := &fakeOwner{}
	o, _ := fs.Invoke(owner, "open", []signal.Value{signal.String("/a.txt"), signal.String("w")})
	fs.Invoke(owner, "write", []signal.Value{o[0], signal.String("0123456789")})

	pos, err := fs.Invoke(owner, "seek", []signal.Value{o[0], signal.String("set"), signal.Number(-5)})
	if err != nil {
		t.Fatalf("seek: %v", err)
	}
	if pos[0].Num != 0 {
		t.Errorf("expected clamp to 0, got %v", pos[0].Num)
	}

	pos, err = fs.Invoke(owner, "seek", []signal.Value{o[0], signal.String("end"), signal.Number(5)})
	if err != nil {
		t.Fatalf("seek: %v", err)
	}
	if pos[0].Num != 10 {
		t.Errorf("expected clamp to end (10), got %v", pos[0].Num)
	}
}
