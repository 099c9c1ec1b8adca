package config

// Engine defaults for every subsection. These mirror what the nebula
// daemon would assume itself; composing a node starts from this document
// and overrides the sections the topology dictates.

func DefaultPki() Pki {
	disconnectInvalid := true
	return Pki{
		DisconnectInvalid: &disconnectInvalid,
	}
}

func DefaultStaticMap() StaticMap {
	return StaticMap{
		Cadence:       "30s",
		Network:       "ip4",
		LookupTimeout: "250ms",
	}
}

func DefaultLighthouse() Lighthouse {
	return Lighthouse{
		AmLighthouse: false,
		ServeDns:     false,
	}
}

func DefaultListen() Listen {
	return Listen{
		Host:          "::",
		Port:          4242,
		Batch:         64,
		ReadBuffer:    10485760,
		WriteBuffer:   10485760,
		SendRecvError: "always",
		SoMark:        0,
	}
}

func DefaultPunchy() Punchy {
	return Punchy{
		Punch:        true,
		Respond:      false,
		Delay:        "1s",
		RespondDelay: "5s",
	}
}

func DefaultSshd() Sshd {
	return Sshd{
		Enabled: false,
	}
}

func DefaultRelay() Relay {
	return Relay{
		AmRelay:   false,
		UseRelays: true,
	}
}

func DefaultTun() Tun {
	return Tun{
		Disabled:           false,
		Dev:                "nebula01",
		DropLocalBroadcast: false,
		DropMulticast:      false,
		TxQueue:            500,
		Mtu:                1300,
	}
}

func DefaultHandshakes() Handshakes {
	return Handshakes{
		TryInterval: "100ms",
		Retries:     20,
	}
}

func DefaultTunnels() Tunnels {
	return Tunnels{
		DropInactive:      false,
		InactivityTimeout: "10m",
	}
}

func DefaultConntrack() Conntrack {
	return Conntrack{
		TcpTimeout:     "12m",
		UdpTimeout:     "3m",
		DefaultTimeout: "10m",
	}
}

// DefaultFirewallRule matches anything: any port, any protocol, any host
func DefaultFirewallRule() FirewallRule {
	return FirewallRule{
		Port:  "any",
		Proto: "any",
		Host:  "any",
	}
}

func DefaultFirewall() Firewall {
	return Firewall{
		OutboundAction:      "drop",
		InboundAction:       "drop",
		DefaultLocalCidrAny: false,
		Conntrack:           DefaultConntrack(),
		Outbound:            make([]FirewallRule, 0),
		Inbound:             make([]FirewallRule, 0),
	}
}

// Default returns the full configuration document with every subsection
// set to its engine default
func Default() *NebulaConfig {
	return &NebulaConfig{
		Pki:               DefaultPki(),
		StaticHostMap:     make(map[string][]string),
		StaticMap:         DefaultStaticMap(),
		Lighthouse:        DefaultLighthouse(),
		Listen:            DefaultListen(),
		Routines:          1,
		Punchy:            DefaultPunchy(),
		Cipher:            "aes",
		Sshd:              DefaultSshd(),
		Relay:             DefaultRelay(),
		Tun:               DefaultTun(),
		MessageMetrics:    false,
		LighthouseMetrics: false,
		Handshakes:        DefaultHandshakes(),
		QueryBuffer:       64,
		TriggerBuffer:     64,
		Tunnels:           DefaultTunnels(),
		Firewall:          DefaultFirewall(),
	}
}
