package component

import (
	"io"
	"os"
	"path/filepath"

	"github.com/occore/occore/internal/sandbox"
	"github.com/occore/occore/internal/signal"
)

const filesystemMaxBufferSize = 4096

type descriptor struct {
	file *os.File
	bad  bool
}

// Filesystem is a descriptor-indexed, sandboxed virtual filesystem
// (spec.md §4.5), grounded on components.cpp's Filesystem::invoke and
// its nested Descriptor class.
type Filesystem struct {
	address string
	name    string
	jail    *sandbox.Jail
	label   string
	ro      bool

	descriptors []*descriptor
	free        []int // FIFO of released slot indices
}

func NewFilesystem(address, name string, jail *sandbox.Jail, label string, readonly bool) *Filesystem {
	return &Filesystem{address: address, name: name, jail: jail, label: label, ro: readonly}
}

func (f *Filesystem) Address() string { return f.address }
func (f *Filesystem) Name() string    { return f.name }
func (f *Filesystem) Type() string    { return "filesystem" }

func (f *Filesystem) Methods() []string {
	return []string{
		"isDirectory", "makeDirectory", "exists", "size", "lastModified",
		"remove", "rename", "open", "read", "write", "seek", "close",
		"list", "isReadOnly", "getLabel", "setLabel", "spaceUsed", "spaceTotal",
	}
}

func (f *Filesystem) resolve(guestPath string) (string, error) {
	p, err := f.jail.Resolve(guestPath)
	if err != nil {
		return "", NewGuestError("filesystem: %s", err.Error())
	}
	return p, nil
}

func (f *Filesystem) Invoke(owner Owner, method string, args []signal.Value) ([]signal.Value, error) {
	switch method {
	case "isDirectory":
		return f.isDirectory(args)
	case "makeDirectory":
		return f.makeDirectory(args)
	case "exists":
		return f.exists(args)
	case "size":
		return f.size(args)
	case "lastModified":
		return f.lastModified(args)
	case "remove":
		return f.remove(args)
	case "rename":
		return f.rename(args)
	case "open":
		return f.open(args)
	case "read":
		return f.read(args)
	case "write":
		return f.write(args)
	case "seek":
		return f.seek(args)
	case "close":
		return f.close(args)
	case "list":
		return f.list(args)
	case "isReadOnly":
		return []signal.Value{signal.Bool(f.ro)}, nil
	case "getLabel":
		return []signal.Value{signal.String(f.label)}, nil
	case "setLabel":
		return f.setLabel(args)
	case "spaceUsed":
		return f.spaceUsed()
	case "spaceTotal":
		return f.spaceTotal()
	default:
		return nil, NewGuestError("filesystem: no such method: %s", method)
	}
}

func argString(args []signal.Value, i int) (string, error) {
	if i >= len(args) || args[i].Kind != signal.KindString {
		return "", NewGuestError("bad argument #%d (string expected)", i+1)
	}
	return args[i].Str, nil
}

func argNumber(args []signal.Value, i int) (float64, error) {
	if i >= len(args) || args[i].Kind != signal.KindNumber {
		return 0, NewGuestError("bad argument #%d (number expected)", i+1)
	}
	return args[i].Num, nil
}

func (f *Filesystem) isDirectory(args []signal.Value) ([]signal.Value, error) {
	path, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	p, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	info, statErr := os.Stat(p)
	return []signal.Value{signal.Bool(statErr == nil && info.IsDir())}, nil
}

func (f *Filesystem) makeDirectory(args []signal.Value) ([]signal.Value, error) {
	path, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	p, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	ok := os.MkdirAll(p, 0755) == nil
	return []signal.Value{signal.Bool(ok)}, nil
}

func (f *Filesystem) exists(args []signal.Value) ([]signal.Value, error) {
	path, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	p, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	_, statErr := os.Stat(p)
	return []signal.Value{signal.Bool(statErr == nil)}, nil
}

func (f *Filesystem) size(args []signal.Value) ([]signal.Value, error) {
	path, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	p, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	info, statErr := os.Stat(p)
	if statErr != nil {
		return []signal.Value{signal.Number(0)}, nil
	}
	return []signal.Value{signal.Number(float64(info.Size()))}, nil
}

// lastModified returns plain Unix-epoch seconds. The original adds a
// 204-year offset (a clock-epoch workaround spec.md §9 calls out as a
// bug); that offset is not replicated here.
func (f *Filesystem) lastModified(args []signal.Value) ([]signal.Value, error) {
	path, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	p, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	info, statErr := os.Stat(p)
	if statErr != nil {
		return []signal.Value{signal.Number(0)}, nil
	}
	return []signal.Value{signal.Number(float64(info.ModTime().Unix()))}, nil
}

func (f *Filesystem) remove(args []signal.Value) ([]signal.Value, error) {
	path, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	p, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	ok := os.RemoveAll(p) == nil
	return []signal.Value{signal.Bool(ok)}, nil
}

func (f *Filesystem) rename(args []signal.Value) ([]signal.Value, error) {
	src, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	dst, err := argString(args, 1)
	if err != nil {
		return nil, err
	}
	srcP, err := f.resolve(src)
	if err != nil {
		return nil, err
	}
	dstP, err := f.resolve(dst)
	if err != nil {
		return nil, err
	}
	ok := os.Rename(srcP, dstP) == nil
	return []signal.Value{signal.Bool(ok)}, nil
}

func (f *Filesystem) open(args []signal.Value) ([]signal.Value, error) {
	path, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	mode := "r"
	if len(args) > 1 {
		mode, err = argString(args, 1)
		if err != nil {
			return nil, err
		}
	}
	p, err := f.resolve(path)
	if err != nil {
		return nil, err
	}

	var flag int
	switch mode {
	case "r", "rb":
		flag = os.O_RDONLY
	case "w", "wb":
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case "a", "ab":
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	default:
		return nil, NewGuestError("filesystem: unsupported mode: %s", mode)
	}

	file, openErr := os.OpenFile(p, flag, 0644)
	if openErr != nil {
		return nil, NewGuestError("filesystem: open: %s", openErr.Error())
	}
	if mode == "a" || mode == "ab" {
		file.Seek(0, io.SeekEnd)
	}

	idx := f.allocSlot(&descriptor{file: file})
	return []signal.Value{signal.Number(float64(idx))}, nil
}

func (f *Filesystem) allocSlot(d *descriptor) int {
	if n := len(f.free); n > 0 {
		idx := f.free[0]
		f.free = f.free[1:]
		f.descriptors[idx] = d
		return idx
	}
	f.descriptors = append(f.descriptors, d)
	return len(f.descriptors) - 1
}

func (f *Filesystem) descriptorAt(fd int) (*descriptor, error) {
	if fd < 0 || fd >= len(f.descriptors) || f.descriptors[fd] == nil {
		return nil, NewGuestError("filesystem: invalid file descriptor: %d", fd)
	}
	return f.descriptors[fd], nil
}

func (f *Filesystem) read(args []signal.Value) ([]signal.Value, error) {
	fdN, err := argNumber(args, 0)
	if err != nil {
		return nil, err
	}
	n, err := argNumber(args, 1)
	if err != nil {
		return nil, err
	}
	d, err := f.descriptorAt(int(fdN))
	if err != nil {
		return nil, err
	}

	want := int(n)
	if want <= 0 {
		want = filesystemMaxBufferSize
	}
	if want > filesystemMaxBufferSize {
		want = filesystemMaxBufferSize
	}
	buf := make([]byte, want)
	read, readErr := d.file.Read(buf)
	if read == 0 && readErr != nil {
		return nil, nil // EOF: return nothing
	}
	return []signal.Value{signal.String(string(buf[:read]))}, nil
}

func (f *Filesystem) write(args []signal.Value) ([]signal.Value, error) {
	fdN, err := argNumber(args, 0)
	if err != nil {
		return nil, err
	}
	data, err := argString(args, 1)
	if err != nil {
		return nil, err
	}
	d, err := f.descriptorAt(int(fdN))
	if err != nil {
		return nil, err
	}

	_, writeErr := d.file.Write([]byte(data))
	if writeErr != nil {
		d.bad = true
	}
	return []signal.Value{signal.Bool(!d.bad)}, nil
}

func (f *Filesystem) seek(args []signal.Value) ([]signal.Value, error) {
	fdN, err := argNumber(args, 0)
	if err != nil {
		return nil, err
	}
	whence, err := argString(args, 1)
	if err != nil {
		return nil, err
	}
	offN, err := argNumber(args, 2)
	if err != nil {
		return nil, err
	}
	d, err := f.descriptorAt(int(fdN))
	if err != nil {
		return nil, err
	}
	offset := int64(offN)

	cur, _ := d.file.Seek(0, io.SeekCurrent)
	info, statErr := d.file.Stat()
	var end int64
	if statErr == nil {
		end = info.Size()
	}

	var abs int64
	switch whence {
	case "cur":
		if -offset > cur {
			offset = -cur
		}
		abs = cur + offset
	case "set":
		if offset < 0 {
			offset = 0
		}
		abs = offset
	case "end":
		if offset > 0 {
			offset = 0
		}
		abs = end + offset
	default:
		return nil, NewGuestError("filesystem: invalid whence: %s", whence)
	}
	if abs < 0 {
		abs = 0
	}

	newPos, seekErr := d.file.Seek(abs, io.SeekStart)
	if seekErr != nil {
		return nil, NewGuestError("filesystem: seek: %s", seekErr.Error())
	}
	return []signal.Value{signal.Number(float64(newPos))}, nil
}

func (f *Filesystem) close(args []signal.Value) ([]signal.Value, error) {
	fdN, err := argNumber(args, 0)
	if err != nil {
		return nil, err
	}
	fd := int(fdN)
	d, err := f.descriptorAt(fd)
	if err != nil {
		return nil, err
	}
	d.file.Sync()
	d.file.Close()
	f.descriptors[fd] = nil
	f.free = append(f.free, fd)
	return []signal.Value{signal.Bool(true)}, nil
}

func (f *Filesystem) list(args []signal.Value) ([]signal.Value, error) {
	path, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	p, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	info, statErr := os.Stat(p)
	if statErr != nil || !info.IsDir() {
		return nil, nil
	}
	entries, readErr := os.ReadDir(p)
	if readErr != nil {
		return nil, nil
	}
	names := make([]signal.Pair, len(entries))
	for i, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names[i] = signal.Pair{Key: signal.Number(float64(i + 1)), Value: signal.String(name)}
	}
	return []signal.Value{signal.Table(names)}, nil
}

func (f *Filesystem) setLabel(args []signal.Value) ([]signal.Value, error) {
	label, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	f.label = label
	return []signal.Value{signal.String(f.label)}, nil
}

func (f *Filesystem) spaceUsed() ([]signal.Value, error) {
	var total int64
	filepath.Walk(f.jail.Root(), func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return []signal.Value{signal.Number(float64(total))}, nil
}

func (f *Filesystem) spaceTotal() ([]signal.Value, error) {
	used, _ := f.spaceUsed()
	free, err := sandbox.FreeBytes(f.jail.Root())
	if err != nil {
		free = 0
	}
	return []signal.Value{signal.Number(used[0].Num + float64(free))}, nil
}
