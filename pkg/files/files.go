// files fixes the on-disk layout of everything the pipeline produces:
// one directory per network, named artifact and config files inside it.
// Packaging reads these names back without re-deriving any pipeline state.
package files

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nebtools/nebgen/pkg/topology"
)

// NetworkDir is the absolute output directory of the network, named after
// the sanitized authority
func NetworkDir(network *topology.Network) (string, error) {
	return filepath.Abs(topology.SanitizeAuthority(network.CertAuthority))
}

// EnsureNetworkDir creates the network output directory if it does not
// exist yet
func EnsureNetworkDir(network *topology.Network) (string, error) {
	dir, err := NetworkDir(network)

	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	return dir, nil
}

// CAPrefix is the path prefix of the authority artifacts:
// {dir}/{authority}_{ip}_{cidr}
func CAPrefix(network *topology.Network) (string, error) {
	dir, err := NetworkDir(network)

	if err != nil {
		return "", err
	}

	authority := topology.SanitizeAuthority(network.CertAuthority)
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%d", authority, network.IP, network.Cidr)), nil
}

// NodePrefix is the path prefix of a node's artifacts: {dir}/{name}
func NodePrefix(network *topology.Network, nodeName string) (string, error) {
	dir, err := NetworkDir(network)

	if err != nil {
		return "", err
	}

	return filepath.Join(dir, nodeName), nil
}

// NodeConfigPath is the path of a node's configuration file:
// {dir}/{name}.yaml
func NodeConfigPath(network *topology.Network, nodeName string) (string, error) {
	prefix, err := NodePrefix(network, nodeName)

	if err != nil {
		return "", err
	}

	return prefix + ".yaml", nil
}

// NodeComposePath is the path of a node's composition descriptor:
// {dir}/{name}_compose.yml
func NodeComposePath(network *topology.Network, nodeName string) (string, error) {
	prefix, err := NodePrefix(network, nodeName)

	if err != nil {
		return "", err
	}

	return prefix + "_compose.yml", nil
}
