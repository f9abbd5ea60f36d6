// Package softether reads Virtual Hub status from a SoftEther VPN server
// by driving the vpncmd administration tool.
package softether

// HubStatus is one snapshot of a Virtual Hub as reported by the server.
type HubStatus struct {
	Online bool

	Sessions       float64
	SessionsClient float64
	SessionsBridge float64
	Users          float64
	Groups         float64
	MacTables      float64
	IPTables       float64
	Logins         float64

	OutgoingUnicastPackets   float64
	OutgoingUnicastBytes     float64
	OutgoingBroadcastPackets float64
	OutgoingBroadcastBytes   float64
	IncomingUnicastPackets   float64
	IncomingUnicastBytes     float64
	IncomingBroadcastPackets float64
	IncomingBroadcastBytes   float64

	// UserTransfers carries per-user traffic totals when the status source
	// provides them. StatusGet does not, so the slice is usually empty.
	UserTransfers []UserTransfer
}

// UserTransfer is the traffic total for a single user on a hub.
type UserTransfer struct {
	User    string
	Bytes   float64
	Packets float64
}
