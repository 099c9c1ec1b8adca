// ip assigns overlay addresses to nodes that do not declare one
package ip

import (
	"fmt"
	"net/netip"

	"github.com/nebtools/nebgen/pkg/topology"
)

// CapacityError: the network block has fewer host addresses than nodes
// that need one
type CapacityError struct {
	msg string
}

func (e *CapacityError) Error() string {
	return e.msg
}

// IPAllocator assigns an address to every node of the network that lacks
// one
type IPAllocator interface {
	Allocate(network *topology.Network) error
}

// PoolAllocator allocates from the network block's host addresses in
// ascending order. Allocation is deterministic for a given node order and
// set of explicit assignments, and re-running it is a no-op once every
// node holds an address.
type PoolAllocator struct{}

// hostAddresses enumerates the usable host addresses of the block in
// ascending order. The network and broadcast addresses are excluded for
// prefixes shorter than /31.
func hostAddresses(prefix netip.Prefix) []netip.Addr {
	hosts := make([]netip.Addr, 0)

	first := prefix.Masked().Addr()

	for addr := first; prefix.Contains(addr); addr = addr.Next() {
		hosts = append(hosts, addr)
	}

	if prefix.Bits() >= 31 {
		return hosts
	}

	if len(hosts) <= 2 {
		return []netip.Addr{}
	}

	return hosts[1 : len(hosts)-1]
}

func (a *PoolAllocator) Allocate(network *topology.Network) error {
	prefix, err := topology.Prefix(network)

	if err != nil {
		return err
	}

	taken := make(map[netip.Addr]struct{})

	for _, node := range network.Nodes {
		if node.IP == "" {
			continue
		}

		addr, err := netip.ParseAddr(node.IP)

		if err != nil {
			return err
		}

		if _, exists := taken[addr]; exists {
			return topology.NewTopologyError(
				fmt.Sprintf("address %s is assigned to more than one node", node.IP))
		}

		taken[addr] = struct{}{}
	}

	candidates := make([]netip.Addr, 0)

	for _, addr := range hostAddresses(prefix) {
		if _, exists := taken[addr]; !exists {
			candidates = append(candidates, addr)
		}
	}

	next := 0

	for index := range network.Nodes {
		if network.Nodes[index].IP != "" {
			continue
		}

		if next >= len(candidates) {
			return &CapacityError{
				msg: fmt.Sprintf("network %s has no addresses left for node %s",
					prefix, network.Nodes[index].Name),
			}
		}

		network.Nodes[index].IP = candidates[next].String()
		next++
	}

	return nil
}
