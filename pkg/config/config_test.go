package config

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDumpOmitsUnsetSkippableSections(t *testing.T) {
	yamlStr, err := Dump(Default())

	if err != nil {
		t.Error(err)
	}

	for _, key := range []string{"logging:", "stats:", "preferred_ranges:"} {
		if strings.Contains(yamlStr, key) {
			t.Fatalf(`%s should be omitted when unset`, key)
		}
	}
}

func TestDumpEmitsFalsyNonSkippableFields(t *testing.T) {
	yamlStr, err := Dump(Default())

	if err != nil {
		t.Error(err)
	}

	for _, key := range []string{
		"am_lighthouse: false",
		"message_metrics: false",
		"lighthouse_metrics: false",
		"serve_dns: false",
		"so_mark: 0",
		"static_host_map: {}",
	} {
		if !strings.Contains(yamlStr, key) {
			t.Fatalf(`expected %s to be emitted`, key)
		}
	}
}

func TestDumpEmitsExplicitlySetZeroValueSection(t *testing.T) {
	config := Default()
	config.Logging = &Logging{}

	yamlStr, err := Dump(config)

	if err != nil {
		t.Error(err)
	}

	if !strings.Contains(yamlStr, "logging:") {
		t.Fatal(`an explicitly set section must be emitted even when zero`)
	}
}

func TestDumpOmitsUnsetSkippableRuleFields(t *testing.T) {
	config := Default()
	rule := DefaultFirewallRule()
	rule.Group = "ssh"
	config.Firewall.Inbound = []FirewallRule{rule}
	config.Firewall.Outbound = []FirewallRule{rule}

	yamlStr, err := Dump(config)

	if err != nil {
		t.Error(err)
	}

	if strings.Contains(yamlStr, "local_cidr") {
		t.Fatal(`local_cidr should be omitted when unset`)
	}

	if strings.Contains(yamlStr, "groups:") {
		t.Fatal(`the groups matcher should be omitted when unset`)
	}

	if !strings.Contains(yamlStr, "group: ssh") {
		t.Fatal(`the group matcher should be emitted`)
	}

	if !strings.Contains(yamlStr, "port: any") {
		t.Fatal(`unconstrained rule fields must still be emitted`)
	}
}

func TestDumpDefaultsRoundTrip(t *testing.T) {
	yamlStr, err := Dump(Default())

	if err != nil {
		t.Error(err)
	}

	var parsed NebulaConfig

	if err := yaml.Unmarshal([]byte(yamlStr), &parsed); err != nil {
		t.Error(err)
	}

	if parsed.Tun.Dev != "nebula01" {
		t.Fatalf(`Have %s want nebula01`, parsed.Tun.Dev)
	}

	if parsed.Cipher != "aes" {
		t.Fatalf(`Have %s want aes`, parsed.Cipher)
	}

	if parsed.Pki.DisconnectInvalid == nil || !*parsed.Pki.DisconnectInvalid {
		t.Fatal(`disconnect_invalid default should survive a round trip`)
	}

	if parsed.Logging != nil {
		t.Fatal(`logging should still be unset after a round trip`)
	}
}

func TestDumpNilConfigIsAPreconditionError(t *testing.T) {
	_, err := Dump(nil)

	if _, ok := err.(*PreconditionError); !ok {
		t.Fatalf(`expected a precondition error got %v`, err)
	}
}
