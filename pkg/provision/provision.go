// provision runs the full pipeline over a network: allocate addresses,
// sign certificates, compose configurations and write the outputs
package provision

import (
	"github.com/nebtools/nebgen/pkg/cert"
	"github.com/nebtools/nebgen/pkg/cmd"
	"github.com/nebtools/nebgen/pkg/composer"
	"github.com/nebtools/nebgen/pkg/deploy"
	"github.com/nebtools/nebgen/pkg/ip"
	logging "github.com/nebtools/nebgen/pkg/log"
	"github.com/nebtools/nebgen/pkg/topology"
)

type Provisioner struct {
	allocator     ip.IPAllocator
	signer        cert.Signer
	composeParams *composer.ComposeParams
}

type NewProvisionerParams struct {
	Allocator ip.IPAllocator
	Signer    cert.Signer
	// Runner builds the default signer when Signer is nil
	Runner        cmd.Runner
	ComposeParams *composer.ComposeParams
}

func NewProvisioner(params *NewProvisionerParams) *Provisioner {
	allocator := params.Allocator

	if allocator == nil {
		allocator = &ip.PoolAllocator{}
	}

	signer := params.Signer

	if signer == nil {
		runner := params.Runner

		if runner == nil {
			runner = &cmd.UnixCmdRunner{}
		}

		signer = cert.NewSigner(&cert.NewSignerParams{Runner: runner})
	}

	return &Provisioner{
		allocator:     allocator,
		signer:        signer,
		composeParams: params.ComposeParams,
	}
}

// Run takes the network from a validated topology to a directory of
// certificates, configuration files and composition descriptors. Each
// step is idempotent once complete; with overwrite set, certificates are
// re-signed from scratch.
func (p *Provisioner) Run(network *topology.Network, overwrite bool) error {
	if err := topology.ValidateNetwork(network); err != nil {
		return err
	}

	if err := p.allocator.Allocate(network); err != nil {
		return err
	}

	if err := p.signer.SignAll(network, overwrite); err != nil {
		return err
	}

	if err := composer.ComposeAll(network, p.composeParams); err != nil {
		return err
	}

	for index := range network.Nodes {
		node := &network.Nodes[index]

		configPath, err := composer.WriteNodeConfig(network, node)

		if err != nil {
			return err
		}

		composePath, err := deploy.WriteNodeCompose(network, node)

		if err != nil {
			return err
		}

		logging.Log.WriteInfof("node %s: wrote %s and %s", node.Name, configPath, composePath)
	}

	return nil
}
