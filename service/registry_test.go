package service

import "testing"

func TestLookupService(t *testing.T) {
	want := map[uint]string{
		20:    "FTP Data",
		21:    "FTP Control",
		22:    "SSH",
		23:    "Telnet",
		25:    "SMTP",
		53:    "DNS",
		80:    "HTTP",
		110:   "POP3",
		143:   "IMAP",
		443:   "HTTPS",
		445:   "SMB",
		3306:  "MySQL",
		3389:  "RDP",
		5432:  "PostgreSQL",
		5900:  "VNC",
		6379:  "Redis",
		8080:  "HTTP Alt",
		8443:  "HTTPS Alt",
		27017: "MongoDB",
	}
	for port, name := range want {
		got, ok := LookupService(port)
		if !ok || got != name {
			t.Fatalf("port %d: got (%q, %v) want %q", port, got, ok, name)
		}
	}

	for _, port := range []uint{0, 1, 81, 4444, 65535} {
		if got, ok := LookupService(port); ok {
			t.Fatalf("port %d: unexpected service %q", port, got)
		}
	}
}
