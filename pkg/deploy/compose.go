// deploy packages pipeline outputs: a composition descriptor per node
// and a compressed archive of whatever the caller wants to ship
package deploy

import (
	"fmt"
	"os"

	"github.com/nebtools/nebgen/pkg/cert"
	"github.com/nebtools/nebgen/pkg/files"
	"github.com/nebtools/nebgen/pkg/topology"
	"gopkg.in/yaml.v3"
)

type ComposeService struct {
	Image         string   `yaml:"image"`
	ContainerName string   `yaml:"container_name"`
	Volumes       []string `yaml:"volumes"`
	Ports         []string `yaml:"ports"`
}

type ComposeFile struct {
	Services map[string]ComposeService `yaml:"services"`
}

// NodeCompose builds the composition descriptor running a node's daemon
// with its configuration file mounted in
func NodeCompose(node *topology.Node) ComposeFile {
	configName := fmt.Sprintf("%s.yaml", node.Name)

	service := ComposeService{
		Image:         fmt.Sprintf("%s:%s", cert.NebulaImage, cert.NebulaImageVersion),
		ContainerName: fmt.Sprintf("nebula_node_%s", node.Name),
		Volumes:       []string{fmt.Sprintf("%s:/etc/nebula/%s", configName, configName)},
		Ports:         []string{fmt.Sprintf("%d:%d", node.Port, node.Port)},
	}

	return ComposeFile{
		Services: map[string]ComposeService{
			"nebula_node": service,
		},
	}
}

// WriteNodeCompose writes a node's composition descriptor into the
// network directory and returns its path
func WriteNodeCompose(network *topology.Network, node *topology.Node) (string, error) {
	yamlBytes, err := yaml.Marshal(NodeCompose(node))

	if err != nil {
		return "", err
	}

	if _, err := files.EnsureNetworkDir(network); err != nil {
		return "", err
	}

	path, err := files.NodeComposePath(network, node.Name)

	if err != nil {
		return "", err
	}

	return path, os.WriteFile(path, yamlBytes, 0o644)
}
