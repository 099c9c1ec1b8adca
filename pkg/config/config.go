// config encapsulates the nebula node configuration document.
// Field names and nesting follow the schema the nebula daemon expects;
// fields the daemon treats as optional are pointer or omitempty typed so
// they disappear from the emitted YAML when unset. Everything else is
// emitted even when set to a zero value.
package config

import (
	"gopkg.in/yaml.v3"
)

// PreconditionError: a configuration was used before the pipeline
// produced it
type PreconditionError struct {
	msg string
}

func (e *PreconditionError) Error() string {
	return e.msg
}

func NewPreconditionError(msg string) *PreconditionError {
	return &PreconditionError{msg: msg}
}

// Pki holds the certificate material paths for a node
type Pki struct {
	CA   string `yaml:"ca"`
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
	// Blocklist: certificate fingerprints to refuse connections from
	Blocklist         []string `yaml:"blocklist,omitempty"`
	DisconnectInvalid *bool    `yaml:"disconnect_invalid,omitempty"`
}

type StaticMap struct {
	Cadence       string `yaml:"cadence"`
	Network       string `yaml:"network"`
	LookupTimeout string `yaml:"lookup_timeout"`
}

type LighthouseDNS struct {
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Interval int      `yaml:"interval"`
	Hosts    []string `yaml:"hosts"`
}

type CalculatedRemote struct {
	Mask string `yaml:"mask"`
	Port int    `yaml:"port"`
}

type Lighthouse struct {
	AmLighthouse      bool                          `yaml:"am_lighthouse"`
	ServeDns          bool                          `yaml:"serve_dns"`
	DNS               *LighthouseDNS                `yaml:"dns,omitempty"`
	RemoteAllowList   map[string]bool               `yaml:"remote_allow_list,omitempty"`
	RemoteAllowRanges map[string]map[string]bool    `yaml:"remote_allow_ranges,omitempty"`
	LocalAllowList    map[string]bool               `yaml:"local_allow_list,omitempty"`
	AdvertiseAddrs    []string                      `yaml:"advertise_addrs,omitempty"`
	CalculatedRemotes map[string][]CalculatedRemote `yaml:"calculated_remotes,omitempty"`
}

type Listen struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	Batch         int    `yaml:"batch"`
	ReadBuffer    int    `yaml:"read_buffer"`
	WriteBuffer   int    `yaml:"write_buffer"`
	SendRecvError string `yaml:"send_recv_error"`
	SoMark        int    `yaml:"so_mark"`
}

type Punchy struct {
	Punch        bool   `yaml:"punch"`
	Respond      bool   `yaml:"respond"`
	Delay        string `yaml:"delay"`
	RespondDelay string `yaml:"respond_delay"`
}

type AuthorizedUser struct {
	User string   `yaml:"user"`
	Keys []string `yaml:"keys"`
}

type Sshd struct {
	Enabled         bool             `yaml:"enabled"`
	Listen          string           `yaml:"listen,omitempty"`
	HostKey         string           `yaml:"host_key,omitempty"`
	AuthorizedUsers []AuthorizedUser `yaml:"authorized_users,omitempty"`
	TrustedCAs      []string         `yaml:"trusted_cas,omitempty"`
}

type Relay struct {
	Relays    []string `yaml:"relays,omitempty"`
	AmRelay   bool     `yaml:"am_relay"`
	UseRelays bool     `yaml:"use_relays"`
}

type Route struct {
	Mtu   int    `yaml:"mtu"`
	Route string `yaml:"route"`
}

type UnsafeRoute struct {
	Route   string `yaml:"route"`
	Via     string `yaml:"via"`
	Mtu     *int   `yaml:"mtu,omitempty"`
	Metric  *int   `yaml:"metric,omitempty"`
	Install *bool  `yaml:"install,omitempty"`
}

type Tun struct {
	Disabled                      bool          `yaml:"disabled"`
	Dev                           string        `yaml:"dev"`
	DropLocalBroadcast            bool          `yaml:"drop_local_broadcast"`
	DropMulticast                 bool          `yaml:"drop_multicast"`
	TxQueue                       int           `yaml:"tx_queue"`
	Mtu                           int           `yaml:"mtu"`
	Routes                        []Route       `yaml:"routes,omitempty"`
	UnsafeRoutes                  []UnsafeRoute `yaml:"unsafe_routes,omitempty"`
	UseSystemRouteTable           bool          `yaml:"use_system_route_table"`
	UseSystemRouteTableBufferSize int           `yaml:"use_system_route_table_buffer_size"`
}

type Logging struct {
	Level            string `yaml:"level"`
	Format           string `yaml:"format"`
	DisableTimestamp bool   `yaml:"disable_timestamp"`
	TimestampFormat  string `yaml:"timestamp_format"`
}

type Stats struct {
	Type      string `yaml:"type"`
	Protocol  string `yaml:"protocol,omitempty"`
	Listen    string `yaml:"listen"`
	Interval  string `yaml:"interval"`
	Path      string `yaml:"path,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
	Subsystem string `yaml:"subsystem,omitempty"`
}

type Handshakes struct {
	TryInterval string `yaml:"try_interval"`
	Retries     int    `yaml:"retries"`
}

type Tunnels struct {
	DropInactive      bool   `yaml:"drop_inactive"`
	InactivityTimeout string `yaml:"inactivity_timeout"`
}

type Conntrack struct {
	TcpTimeout     string `yaml:"tcp_timeout"`
	UdpTimeout     string `yaml:"udp_timeout"`
	DefaultTimeout string `yaml:"default_timeout"`
}

// FirewallRule is one inbound or outbound firewall entry. Port, Proto and
// Host always carry a value ("any" when unconstrained); the group matchers
// and local_cidr only appear when set.
type FirewallRule struct {
	Port      string   `yaml:"port"`
	Proto     string   `yaml:"proto"`
	Host      string   `yaml:"host"`
	Groups    []string `yaml:"groups,omitempty"`
	Group     string   `yaml:"group,omitempty"`
	LocalCidr string   `yaml:"local_cidr,omitempty"`
}

type Firewall struct {
	OutboundAction      string         `yaml:"outbound_action"`
	InboundAction       string         `yaml:"inbound_action"`
	DefaultLocalCidrAny bool           `yaml:"default_local_cidr_any"`
	Conntrack           Conntrack      `yaml:"conntrack"`
	Outbound            []FirewallRule `yaml:"outbound"`
	Inbound             []FirewallRule `yaml:"inbound"`
}

// NebulaConfig is the full per-node configuration document. The logging,
// stats and preferred_ranges sections are only emitted when set.
type NebulaConfig struct {
	Pki               Pki                 `yaml:"pki"`
	StaticHostMap     map[string][]string `yaml:"static_host_map"`
	StaticMap         StaticMap           `yaml:"static_map"`
	Lighthouse        Lighthouse          `yaml:"lighthouse"`
	Listen            Listen              `yaml:"listen"`
	Routines          int                 `yaml:"routines"`
	Punchy            Punchy              `yaml:"punchy"`
	Cipher            string              `yaml:"cipher"`
	PreferredRanges   []string            `yaml:"preferred_ranges,omitempty"`
	Sshd              Sshd                `yaml:"sshd"`
	Relay             Relay               `yaml:"relay"`
	Tun               Tun                 `yaml:"tun"`
	Logging           *Logging            `yaml:"logging,omitempty"`
	Stats             *Stats              `yaml:"stats,omitempty"`
	MessageMetrics    bool                `yaml:"message_metrics"`
	LighthouseMetrics bool                `yaml:"lighthouse_metrics"`
	Handshakes        Handshakes          `yaml:"handshakes"`
	QueryBuffer       int                 `yaml:"query_buffer"`
	TriggerBuffer     int                 `yaml:"trigger_buffer"`
	Tunnels           Tunnels             `yaml:"tunnels"`
	Firewall          Firewall            `yaml:"firewall"`
}

// Dump serializes the configuration document to YAML
func Dump(config *NebulaConfig) (string, error) {
	if config == nil {
		return "", NewPreconditionError("configuration has not been composed")
	}

	yamlBytes, err := yaml.Marshal(config)

	if err != nil {
		return "", err
	}

	return string(yamlBytes), nil
}
