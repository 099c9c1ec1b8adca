// topology defines the overlay network model: a network owns an address
// block, a certificate authority name and an ordered list of member nodes
package topology

import (
	"fmt"
	"net/netip"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nebtools/nebgen/pkg/config"
	"gopkg.in/yaml.v3"
)

const DefaultNodePort = 4242

type TopologyError struct {
	msg string
}

func (e *TopologyError) Error() string {
	return e.msg
}

func NewTopologyError(msg string) *TopologyError {
	return &TopologyError{msg: msg}
}

// GroupSelector is either a bare firewall group label or a fully
// specified firewall rule. The variant is fixed when the topology file is
// parsed; nothing downstream re-inspects the YAML shape.
type GroupSelector struct {
	Group string
	Rule  *config.FirewallRule
}

func (g *GroupSelector) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&g.Group)
	case yaml.MappingNode:
		rule := config.DefaultFirewallRule()

		if err := value.Decode(&rule); err != nil {
			return err
		}

		g.Rule = &rule
		return nil
	default:
		return &TopologyError{msg: fmt.Sprintf("line %d: firewall group must be a label or a rule", value.Line)}
	}
}

func (g GroupSelector) MarshalYAML() (interface{}, error) {
	if g.Rule != nil {
		return g.Rule, nil
	}

	return g.Group, nil
}

// Node is one member of the network. The address may be left empty in the
// topology file, in which case the allocator assigns one. Config is
// attached once the node has been composed.
type Node struct {
	// Name to use as the hostname and file identifier of the node
	Name string `yaml:"name" validate:"required,hostname_rfc1123"`
	// IP within the overlay network; assigned automatically when empty
	IP string `yaml:"ip" validate:"omitempty,ip4_addr"`
	// Port the node listens on
	Port int `yaml:"port" validate:"gte=1,lte=65535"`
	// Lighthouse specifies whether the node acts as a rendezvous point
	Lighthouse bool `yaml:"lighthouse"`
	// Public is the routable address:port other nodes reach a lighthouse on
	Public string `yaml:"public" validate:"omitempty,hostname_port"`
	// Groups are the firewall group labels or full rule objects of the node
	Groups []GroupSelector `yaml:"groups"`

	Config *config.NebulaConfig `yaml:"-"`
}

// Network owns its nodes by value; nodes are never shared across
// networks. Node order is insertion order and is preserved.
type Network struct {
	// CertAuthority is the name of the signing authority for the network
	CertAuthority string `yaml:"certAuthority" validate:"required"`
	// IP is the base address of the network block
	IP string `yaml:"ip" validate:"required,ip4_addr"`
	// Cidr is the prefix length of the network block
	Cidr int `yaml:"cidr" validate:"gte=0,lte=32"`
	// Nodes are the members of the network in declaration order
	Nodes []Node `yaml:"nodes" validate:"dive"`
}

// SanitizeAuthority strips whitespace from an authority name so it can be
// used in file and container names
func SanitizeAuthority(name string) string {
	return strings.Join(strings.Fields(name), "")
}

// Prefix derives the network's address block from its base IP and prefix
// length
func Prefix(network *Network) (netip.Prefix, error) {
	addr, err := netip.ParseAddr(network.IP)

	if err != nil {
		return netip.Prefix{}, err
	}

	prefix, err := addr.Prefix(network.Cidr)

	if err != nil {
		return netip.Prefix{}, err
	}

	return prefix, nil
}

// Lighthouses returns the nodes flagged as lighthouses, preserving their
// relative order in the topology
func Lighthouses(network *Network) []*Node {
	lighthouses := make([]*Node, 0)

	for index := range network.Nodes {
		if network.Nodes[index].Lighthouse {
			lighthouses = append(lighthouses, &network.Nodes[index])
		}
	}

	return lighthouses
}

// FindNode looks a node up by its exact name
func FindNode(network *Network, name string) (*Node, error) {
	for index := range network.Nodes {
		if network.Nodes[index].Name == name {
			return &network.Nodes[index], nil
		}
	}

	return nil, &TopologyError{msg: fmt.Sprintf("node %s does not exist in network %s", name, network.CertAuthority)}
}

// FilterNodes returns the nodes whose name contains the given substring.
// An empty substring returns every node.
func FilterNodes(network *Network, substring string) []*Node {
	nodes := make([]*Node, 0)

	for index := range network.Nodes {
		if strings.Contains(network.Nodes[index].Name, substring) {
			nodes = append(nodes, &network.Nodes[index])
		}
	}

	return nodes
}

// ValidateNetwork: validates the shape of the network and the
// cross-node invariants that struct tags cannot express
func ValidateNetwork(network *Network) error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(network); err != nil {
		return err
	}

	prefix, err := Prefix(network)

	if err != nil {
		return err
	}

	names := make(map[string]struct{})
	addresses := make(map[string]struct{})

	for _, node := range network.Nodes {
		if _, exists := names[node.Name]; exists {
			return &TopologyError{msg: fmt.Sprintf("duplicate node name %s", node.Name)}
		}

		names[node.Name] = struct{}{}

		if node.Lighthouse && node.Public == "" {
			return &TopologyError{msg: fmt.Sprintf("lighthouse %s has no public endpoint", node.Name)}
		}

		if node.IP == "" {
			continue
		}

		if _, exists := addresses[node.IP]; exists {
			return &TopologyError{msg: fmt.Sprintf("address %s is assigned to more than one node", node.IP)}
		}

		addresses[node.IP] = struct{}{}

		addr, err := netip.ParseAddr(node.IP)

		if err != nil {
			return err
		}

		if !prefix.Contains(addr) {
			return &TopologyError{msg: fmt.Sprintf("node %s address %s is outside %s", node.Name, node.IP, prefix)}
		}
	}

	return nil
}

// NewNetwork constructs a validated network from its parts, sanitizing
// the authority name and applying the default node port
func NewNetwork(certAuthority, ip string, cidr int, nodes []Node) (*Network, error) {
	network := &Network{
		CertAuthority: SanitizeAuthority(certAuthority),
		IP:            ip,
		Cidr:          cidr,
		Nodes:         nodes,
	}

	for index := range network.Nodes {
		if network.Nodes[index].Port == 0 {
			network.Nodes[index].Port = DefaultNodePort
		}
	}

	return network, ValidateNetwork(network)
}

// ParseTopology parses a topology YAML file and validates it
func ParseTopology(filePath string) (*Network, error) {
	yamlBytes, err := os.ReadFile(filePath)

	if err != nil {
		return nil, err
	}

	var network Network

	err = yaml.Unmarshal(yamlBytes, &network)

	if err != nil {
		return nil, err
	}

	return NewNetwork(network.CertAuthority, network.IP, network.Cidr, network.Nodes)
}
