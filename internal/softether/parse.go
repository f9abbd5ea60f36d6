package softether

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNoStatus is returned when vpncmd output contains no recognizable
// item/value rows, which usually means the connection or login failed
// before StatusGet ran.
var ErrNoStatus = errors.New("no status items in vpncmd output")

// ParseStatus decodes the CSV emitted by "vpncmd /CSV /CMD StatusGet" into
// a HubStatus. Unknown items are ignored so newer server versions with
// extra rows still parse.
func ParseStatus(out []byte) (HubStatus, error) {
	r := csv.NewReader(strings.NewReader(string(out)))
	r.FieldsPerRecord = -1

	var status HubStatus
	seen := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return HubStatus{}, fmt.Errorf("read csv: %w", err)
		}
		if len(record) < 2 {
			continue
		}
		if applyItem(&status, record[0], record[1]) {
			seen++
		}
	}
	if seen == 0 {
		return HubStatus{}, ErrNoStatus
	}
	return status, nil
}

func applyItem(status *HubStatus, item, value string) bool {
	switch strings.TrimSpace(item) {
	case "Current Status of the Virtual Hub":
		status.Online = strings.EqualFold(strings.TrimSpace(value), "Online")
	case "Number of Sessions":
		status.Sessions = parseCount(value)
	case "Number of Sessions (Client)":
		status.SessionsClient = parseCount(value)
	case "Number of Sessions (Bridge)":
		status.SessionsBridge = parseCount(value)
	case "Number of Users":
		status.Users = parseCount(value)
	case "Number of Groups":
		status.Groups = parseCount(value)
	case "Number of MAC Address Tables":
		status.MacTables = parseCount(value)
	case "Number of IP Address Tables":
		status.IPTables = parseCount(value)
	case "Num Logins":
		status.Logins = parseCount(value)
	case "Outgoing Unicast Packets":
		status.OutgoingUnicastPackets = parseCount(value)
	case "Outgoing Unicast Total Size":
		status.OutgoingUnicastBytes = parseCount(value)
	case "Outgoing Broadcast Packets":
		status.OutgoingBroadcastPackets = parseCount(value)
	case "Outgoing Broadcast Total Size":
		status.OutgoingBroadcastBytes = parseCount(value)
	case "Incoming Unicast Packets":
		status.IncomingUnicastPackets = parseCount(value)
	case "Incoming Unicast Total Size":
		status.IncomingUnicastBytes = parseCount(value)
	case "Incoming Broadcast Packets":
		status.IncomingBroadcastPackets = parseCount(value)
	case "Incoming Broadcast Total Size":
		status.IncomingBroadcastBytes = parseCount(value)
	default:
		return false
	}
	return true
}

// parseCount extracts the leading number from values like
// "1,234,567 packets" or "12 bytes". Malformed values yield 0.
func parseCount(value string) float64 {
	value = strings.TrimSpace(value)
	if i := strings.IndexByte(value, ' '); i >= 0 {
		value = value[:i]
	}
	value = strings.ReplaceAll(value, ",", "")
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return n
}
