package service

// commonServices 常见端口到服务名的映射，进程启动后不再修改，可以在各个协程间直接共享
var commonServices = map[uint]string{
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

// LookupService 查询端口对应的服务名，找不到时 ok 为 false
func LookupService(port uint) (name string, ok bool) {
	name, ok = commonServices[port]
	return
}
