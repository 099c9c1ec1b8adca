// composer builds the canonical configuration document for each node
// from the topology, the node's assigned address and its certificate
// artifact paths
package composer

import (
	"fmt"
	"os"

	"github.com/nebtools/nebgen/pkg/cert"
	"github.com/nebtools/nebgen/pkg/config"
	"github.com/nebtools/nebgen/pkg/files"
	"github.com/nebtools/nebgen/pkg/topology"
)

// ComposeParams overrides default subsections of the composed
// configuration. Nil fields keep the engine default.
type ComposeParams struct {
	Listen  *config.Listen
	Tun     *config.Tun
	Punchy  *config.Punchy
	Logging *config.Logging
	Stats   *config.Stats
	Cipher  *string
}

// ResolveFirewall expands the node's group selectors into fully
// specified rule entries. A bare label becomes a rule matching that group
// with every other field left at "match any"; explicit rule objects pass
// through unchanged. The same entries apply inbound and outbound.
func ResolveFirewall(node *topology.Node) config.Firewall {
	rules := make([]config.FirewallRule, len(node.Groups))

	for index, selector := range node.Groups {
		if selector.Rule != nil {
			rules[index] = *selector.Rule
			continue
		}

		rule := config.DefaultFirewallRule()
		rule.Group = selector.Group
		rules[index] = rule
	}

	firewall := config.DefaultFirewall()
	firewall.Inbound = rules
	firewall.Outbound = rules
	return firewall
}

// staticHostMap seeds a non-lighthouse node with every lighthouse's
// address mapped to its public endpoint. Lighthouses are discovered by
// others, not the reverse, so their own map is empty.
func staticHostMap(network *topology.Network, node *topology.Node) map[string][]string {
	hostMap := make(map[string][]string)

	if node.Lighthouse {
		return hostMap
	}

	for _, lighthouse := range topology.Lighthouses(network) {
		hostMap[lighthouse.IP] = []string{lighthouse.Public}
	}

	return hostMap
}

// Compose builds the configuration document for one node. The node must
// hold an allocated address; its certificate artifact paths are composed
// in whether or not signing has already produced them.
func Compose(network *topology.Network, node *topology.Node, params *ComposeParams) (*config.NebulaConfig, error) {
	if node.IP == "" {
		return nil, config.NewPreconditionError(
			fmt.Sprintf("node %s has no address: run allocation first", node.Name))
	}

	caArtifacts, err := cert.CAArtifacts(network)

	if err != nil {
		return nil, err
	}

	nodeArtifacts, err := cert.NodeArtifacts(network, node)

	if err != nil {
		return nil, err
	}

	composed := config.Default()

	composed.Pki.CA = caArtifacts.Cert
	composed.Pki.Cert = nodeArtifacts.Cert
	composed.Pki.Key = nodeArtifacts.Key

	composed.StaticHostMap = staticHostMap(network, node)
	composed.Lighthouse.AmLighthouse = node.Lighthouse
	composed.Listen.Port = node.Port
	composed.Firewall = ResolveFirewall(node)

	if params == nil {
		return composed, nil
	}

	if params.Listen != nil {
		composed.Listen = *params.Listen
	}

	if params.Tun != nil {
		composed.Tun = *params.Tun
	}

	if params.Punchy != nil {
		composed.Punchy = *params.Punchy
	}

	if params.Logging != nil {
		composed.Logging = params.Logging
	}

	if params.Stats != nil {
		composed.Stats = params.Stats
	}

	if params.Cipher != nil {
		composed.Cipher = *params.Cipher
	}

	return composed, nil
}

// ComposeAll composes and attaches the configuration of every node in
// the network
func ComposeAll(network *topology.Network, params *ComposeParams) error {
	for index := range network.Nodes {
		composed, err := Compose(network, &network.Nodes[index], params)

		if err != nil {
			return err
		}

		network.Nodes[index].Config = composed
	}

	return nil
}

// DumpNode serializes a node's attached configuration to YAML. Dumping
// before the node was composed is a precondition error.
func DumpNode(node *topology.Node) (string, error) {
	if node.Config == nil {
		return "", config.NewPreconditionError(
			fmt.Sprintf("node %s has no configuration: compose it first", node.Name))
	}

	return config.Dump(node.Config)
}

// WriteNodeConfig writes a node's configuration file into the network
// directory and returns its path
func WriteNodeConfig(network *topology.Network, node *topology.Node) (string, error) {
	yamlStr, err := DumpNode(node)

	if err != nil {
		return "", err
	}

	if _, err := files.EnsureNetworkDir(network); err != nil {
		return "", err
	}

	path, err := files.NodeConfigPath(network, node.Name)

	if err != nil {
		return "", err
	}

	return path, os.WriteFile(path, []byte(yamlStr), 0o644)
}
