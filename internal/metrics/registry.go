// Package metrics owns the fixed catalog of gauges the exporter exposes.
// The catalog is created once at startup; metric names and label sets are
// part of the wire contract with the scraper and must not change.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/HerbHall/softether-exporter/internal/softether"
)

// Load average interval label values.
const (
	Interval1Min  = "1_min"
	Interval5Min  = "5_min"
	Interval15Min = "15_min"
)

// Registry holds every gauge family the exporter exposes, backed by an
// explicitly owned Prometheus registry rather than the global default.
type Registry struct {
	registry *prometheus.Registry

	cpuLoad       prometheus.Gauge
	memoryUsage   prometheus.Gauge
	freeDiskSpace prometheus.Gauge
	uptime        prometheus.Gauge
	bootTime      prometheus.Gauge
	loadAverage   *prometheus.GaugeVec
	packetsIn     *prometheus.GaugeVec
	packetsOut    *prometheus.GaugeVec

	// mu serializes hub record writes so two overlapping refresh cycles
	// cannot interleave fields of the same hub.
	mu                       sync.Mutex
	up                       *prometheus.GaugeVec
	online                   *prometheus.GaugeVec
	sessions                 *prometheus.GaugeVec
	sessionsClient           *prometheus.GaugeVec
	sessionsBridge           *prometheus.GaugeVec
	users                    *prometheus.GaugeVec
	groups                   *prometheus.GaugeVec
	macTables                *prometheus.GaugeVec
	ipTables                 *prometheus.GaugeVec
	logins                   *prometheus.GaugeVec
	outgoingUnicastPackets   *prometheus.GaugeVec
	outgoingUnicastBytes     *prometheus.GaugeVec
	outgoingBroadcastPackets *prometheus.GaugeVec
	outgoingBroadcastBytes   *prometheus.GaugeVec
	incomingUnicastPackets   *prometheus.GaugeVec
	incomingUnicastBytes     *prometheus.GaugeVec
	incomingBroadcastPackets *prometheus.GaugeVec
	incomingBroadcastBytes   *prometheus.GaugeVec
	userTransferBytes        *prometheus.GaugeVec
	userTransferPackets      *prometheus.GaugeVec
}

// New creates the full gauge catalog and registers it.
func New() *Registry {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
	}
	vec := func(name, help string, labels ...string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, labels)
	}

	r := &Registry{
		registry: prometheus.NewRegistry(),

		cpuLoad:       gauge("system_cpu_load", "Current system CPU load as a percentage."),
		memoryUsage:   gauge("system_memory_usage", "Used memory in the system as a percentage."),
		freeDiskSpace: gauge("system_free_disk_space", "Free disk space on the system as a percentage."),
		uptime:        gauge("system_uptime", "System uptime in seconds."),
		bootTime:      gauge("system_boot_time", "System boot time in UNIX timestamp."),
		loadAverage:   vec("system_load_average", "Load average over 1, 5, and 15 minutes.", "interval"),
		packetsIn:     vec("system_network_packets_in", "Number of packets received on the network interface.", "interface"),
		packetsOut:    vec("system_network_packets_out", "Number of packets sent from the network interface.", "interface"),

		up:                       vec("softether_up", "The last query is successful.", "hub"),
		online:                   vec("softether_online", "Hub online.", "hub"),
		sessions:                 vec("softether_sessions", "Number of sessions.", "hub"),
		sessionsClient:           vec("softether_sessions_client", "Number of client sessions.", "hub"),
		sessionsBridge:           vec("softether_sessions_bridge", "Number of bridge sessions.", "hub"),
		users:                    vec("softether_users", "Number of users.", "hub"),
		groups:                   vec("softether_groups", "Number of groups.", "hub"),
		macTables:                vec("softether_mac_tables", "Number of entries in MAC table.", "hub"),
		ipTables:                 vec("softether_ip_tables", "Number of entries in IP table.", "hub"),
		logins:                   vec("softether_logins", "Number of logins.", "hub"),
		outgoingUnicastPackets:   vec("softether_outgoing_unicast_packets", "Outgoing unicast transfer in packets.", "hub"),
		outgoingUnicastBytes:     vec("softether_outgoing_unicast_bytes", "Outgoing unicast transfer in bytes.", "hub"),
		outgoingBroadcastPackets: vec("softether_outgoing_broadcast_packets", "Outgoing broadcast transfer in packets.", "hub"),
		outgoingBroadcastBytes:   vec("softether_outgoing_broadcast_bytes", "Outgoing broadcast transfer in bytes.", "hub"),
		incomingUnicastPackets:   vec("softether_incoming_unicast_packets", "Incoming unicast transfer in packets.", "hub"),
		incomingUnicastBytes:     vec("softether_incoming_unicast_bytes", "Incoming unicast transfer in bytes.", "hub"),
		incomingBroadcastPackets: vec("softether_incoming_broadcast_packets", "Incoming broadcast transfer in packets.", "hub"),
		incomingBroadcastBytes:   vec("softether_incoming_broadcast_bytes", "Incoming broadcast transfer in bytes.", "hub"),
		userTransferBytes:        vec("softether_user_transfer_bytes", "User transfer in bytes.", "hub", "user"),
		userTransferPackets:      vec("softether_user_transfer_packets", "User transfer in packets.", "hub", "user"),
	}

	r.registry.MustRegister(
		r.cpuLoad, r.memoryUsage, r.freeDiskSpace, r.uptime, r.bootTime,
		r.loadAverage, r.packetsIn, r.packetsOut,
		r.up, r.online,
		r.sessions, r.sessionsClient, r.sessionsBridge,
		r.users, r.groups, r.macTables, r.ipTables, r.logins,
		r.outgoingUnicastPackets, r.outgoingUnicastBytes,
		r.outgoingBroadcastPackets, r.outgoingBroadcastBytes,
		r.incomingUnicastPackets, r.incomingUnicastBytes,
		r.incomingBroadcastPackets, r.incomingBroadcastBytes,
		r.userTransferBytes, r.userTransferPackets,
	)

	return r
}

// Gatherer exposes the underlying registry for exposition encoding.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// SetCPULoad records the host CPU load figure.
func (r *Registry) SetCPULoad(v float64) { r.cpuLoad.Set(v) }

// SetMemoryUsage records the used-memory percentage.
func (r *Registry) SetMemoryUsage(v float64) { r.memoryUsage.Set(v) }

// SetFreeDiskSpace records the aggregate disk usage percentage.
func (r *Registry) SetFreeDiskSpace(v float64) { r.freeDiskSpace.Set(v) }

// SetUptime records host uptime in seconds.
func (r *Registry) SetUptime(v float64) { r.uptime.Set(v) }

// SetBootTime records the host boot time as a UNIX timestamp.
func (r *Registry) SetBootTime(v float64) { r.bootTime.Set(v) }

// SetLoadAverage records one load average figure for the given interval
// label (Interval1Min, Interval5Min or Interval15Min).
func (r *Registry) SetLoadAverage(interval string, v float64) {
	r.loadAverage.WithLabelValues(interval).Set(v)
}

// SetNetworkPackets records the packet counters for one interface.
func (r *Registry) SetNetworkPackets(iface string, in, out float64) {
	r.packetsIn.WithLabelValues(iface).Set(in)
	r.packetsOut.WithLabelValues(iface).Set(out)
}

// SetHubStatus writes a hub's full record in one critical section: up=1,
// the online flag, all counts and transfer counters, and any per-user
// transfer series the status carried.
func (r *Registry) SetHubStatus(hub string, status softether.HubStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.up.WithLabelValues(hub).Set(1)
	online := 0.0
	if status.Online {
		online = 1
	}
	r.online.WithLabelValues(hub).Set(online)
	r.sessions.WithLabelValues(hub).Set(status.Sessions)
	r.sessionsClient.WithLabelValues(hub).Set(status.SessionsClient)
	r.sessionsBridge.WithLabelValues(hub).Set(status.SessionsBridge)
	r.users.WithLabelValues(hub).Set(status.Users)
	r.groups.WithLabelValues(hub).Set(status.Groups)
	r.macTables.WithLabelValues(hub).Set(status.MacTables)
	r.ipTables.WithLabelValues(hub).Set(status.IPTables)
	r.logins.WithLabelValues(hub).Set(status.Logins)
	r.outgoingUnicastPackets.WithLabelValues(hub).Set(status.OutgoingUnicastPackets)
	r.outgoingUnicastBytes.WithLabelValues(hub).Set(status.OutgoingUnicastBytes)
	r.outgoingBroadcastPackets.WithLabelValues(hub).Set(status.OutgoingBroadcastPackets)
	r.outgoingBroadcastBytes.WithLabelValues(hub).Set(status.OutgoingBroadcastBytes)
	r.incomingUnicastPackets.WithLabelValues(hub).Set(status.IncomingUnicastPackets)
	r.incomingUnicastBytes.WithLabelValues(hub).Set(status.IncomingUnicastBytes)
	r.incomingBroadcastPackets.WithLabelValues(hub).Set(status.IncomingBroadcastPackets)
	r.incomingBroadcastBytes.WithLabelValues(hub).Set(status.IncomingBroadcastBytes)

	for _, ut := range status.UserTransfers {
		r.userTransferBytes.WithLabelValues(hub, ut.User).Set(ut.Bytes)
		r.userTransferPackets.WithLabelValues(hub, ut.User).Set(ut.Packets)
	}
}

// MarkHubDown records a failed status query for the hub. Only the up gauge
// changes; every other series for the hub keeps its last successful value.
func (r *Registry) MarkHubDown(hub string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.up.WithLabelValues(hub).Set(0)
}
