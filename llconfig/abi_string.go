package llconfig

import "strings"

// String renders the set as a sorted, human-readable keyword list.
// This is a diagnostic aid only -- the error taxonomy and the
// llconfigctl dry-run printer use it; no parsing or validation path
// depends on its output.
func (a AccessFSSet) String() string {
	if a.isEmpty() {
		return "{}"
	}
	names := []struct {
		bit  AccessFSSet
		name string
	}{
		{AccessFSExecute, "execute"},
		{AccessFSWriteFile, "write_file"},
		{AccessFSReadFile, "read_file"},
		{AccessFSReadDir, "read_dir"},
		{AccessFSRemoveDir, "remove_dir"},
		{AccessFSRemoveFile, "remove_file"},
		{AccessFSMakeChar, "make_char"},
		{AccessFSMakeDir, "make_dir"},
		{AccessFSMakeReg, "make_reg"},
		{AccessFSMakeSock, "make_sock"},
		{AccessFSMakeFifo, "make_fifo"},
		{AccessFSMakeBlock, "make_block"},
		{AccessFSMakeSym, "make_sym"},
		{AccessFSRefer, "refer"},
		{AccessFSTruncate, "truncate"},
		{AccessFSIoctlDev, "ioctl_dev"},
	}
	var b strings.Builder
	b.WriteByte('{')
	for _, n := range names {
		if a&n.bit == 0 {
			continue
		}
		if b.Len() > 1 {
			b.WriteByte(',')
		}
		b.WriteString(n.name)
	}
	b.WriteByte('}')
	return b.String()
}

func (a AccessNetSet) String() string {
	if a.isEmpty() {
		return "{}"
	}
	names := []struct {
		bit  AccessNetSet
		name string
	}{
		{AccessNetBindTCP, "bind_tcp"},
		{AccessNetConnectTCP, "connect_tcp"},
	}
	var b strings.Builder
	b.WriteByte('{')
	for _, n := range names {
		if a&n.bit == 0 {
			continue
		}
		if b.Len() > 1 {
			b.WriteByte(',')
		}
		b.WriteString(n.name)
	}
	b.WriteByte('}')
	return b.String()
}

func (a ScopeSet) String() string {
	if a.isEmpty() {
		return "{}"
	}
	names := []struct {
		bit  ScopeSet
		name string
	}{
		{ScopeAbstractUnixSocket, "abstract_unix_socket"},
		{ScopeSignal, "signal"},
	}
	var b strings.Builder
	b.WriteByte('{')
	for _, n := range names {
		if a&n.bit == 0 {
			continue
		}
		if b.Len() > 1 {
			b.WriteByte(',')
		}
		b.WriteString(n.name)
	}
	b.WriteByte('}')
	return b.String()
}
