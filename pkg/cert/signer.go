package cert

import (
	"fmt"

	"github.com/nebtools/nebgen/pkg/cmd"
	"github.com/nebtools/nebgen/pkg/files"
	"github.com/nebtools/nebgen/pkg/lib"
	logging "github.com/nebtools/nebgen/pkg/log"
	"github.com/nebtools/nebgen/pkg/topology"
)

const NebulaImage = "nebulaoss/nebula"
const NebulaImageVersion = "latest"

// Signer issues the authority certificate and the node certificates
// chained to it. The authority must be complete before any node is
// signed; SignNode enforces that itself.
type Signer interface {
	EnsureCA(network *topology.Network, overwrite bool) error
	SignNode(network *topology.Network, node *topology.Node, overwrite bool) error
	SignAll(network *topology.Network, overwrite bool) error
}

// NebulaCertSigner runs the nebula-cert entrypoint of the official
// container image through an injected process runner
type NebulaCertSigner struct {
	runner cmd.Runner
	ids    lib.IdGenerator
	image  string
}

type NewSignerParams struct {
	Runner      cmd.Runner
	IdGenerator lib.IdGenerator
	// Image overrides the container image to sign with
	Image string
}

func NewSigner(params *NewSignerParams) *NebulaCertSigner {
	image := params.Image

	if image == "" {
		image = fmt.Sprintf("%s:%s", NebulaImage, NebulaImageVersion)
	}

	ids := params.IdGenerator

	if ids == nil {
		ids = &lib.UUIDGenerator{}
	}

	return &NebulaCertSigner{
		runner: params.Runner,
		ids:    ids,
		image:  image,
	}
}

// invoke runs one signing command inside the container, with the network
// directory mounted at its own absolute path so output paths resolve
// identically on both sides
func (s *NebulaCertSigner) invoke(containerName, dir string, certArgs []string) error {
	args := []string{
		"run", "--rm",
		"--name", containerName,
		"-v", fmt.Sprintf("%s:%s", dir, dir),
		"-w", dir,
		"--entrypoint", "/nebula-cert",
		s.image,
	}

	return s.runner.Run("docker", append(args, certArgs...)...)
}

// ensure moves an artifact set to complete: a no-op when it already is,
// an IntegrityError when it is partial, one signing invocation when it is
// absent. Partially written outputs of a failed invocation are always
// scrubbed before the error is surfaced.
func (s *NebulaCertSigner) ensure(artifacts ArtifactSet, overwrite bool, containerName, dir string, certArgs []string) error {
	switch artifacts.State() {
	case Partial:
		return &IntegrityError{Missing: artifacts.Missing()}
	case Complete:
		if !overwrite {
			return nil
		}

		if err := artifacts.Remove(); err != nil {
			return err
		}
	}

	if err := s.invoke(containerName, dir, certArgs); err != nil {
		if scrubErr := artifacts.Remove(); scrubErr != nil {
			logging.Log.WriteErrorf("failed to scrub outputs of %s: %s", containerName, scrubErr.Error())
		}

		return &SigningError{msg: fmt.Sprintf("signing process failed: %s", err.Error())}
	}

	if artifacts.State() != Complete {
		missing := artifacts.Missing()

		if scrubErr := artifacts.Remove(); scrubErr != nil {
			logging.Log.WriteErrorf("failed to scrub outputs of %s: %s", containerName, scrubErr.Error())
		}

		return &SigningError{msg: fmt.Sprintf("signing process did not produce: %v", missing)}
	}

	return nil
}

// EnsureCA makes the authority artifact set complete, signing it if
// needed. With overwrite set, existing artifacts are deleted first and
// the authority is re-signed.
func (s *NebulaCertSigner) EnsureCA(network *topology.Network, overwrite bool) error {
	dir, err := files.EnsureNetworkDir(network)

	if err != nil {
		return err
	}

	artifacts, err := CAArtifacts(network)

	if err != nil {
		return err
	}

	prefix, err := topology.Prefix(network)

	if err != nil {
		return err
	}

	id, err := s.ids.GetId()

	if err != nil {
		return err
	}

	authority := topology.SanitizeAuthority(network.CertAuthority)
	containerName := fmt.Sprintf("network_ca_certificate_%s_%s", authority, id)

	certArgs := []string{
		"ca",
		"-name", authority,
		"-ips", prefix.String(),
		"-out-crt", artifacts.Cert,
		"-out-key", artifacts.Key,
		"-out-qr", artifacts.QR,
	}

	if err := s.ensure(artifacts, overwrite, containerName, dir, certArgs); err != nil {
		return err
	}

	logging.Log.WriteInfof("authority %s is complete", authority)
	return nil
}

// SignNode makes one node's artifact set complete, ensuring the
// authority first. The node must hold an address.
func (s *NebulaCertSigner) SignNode(network *topology.Network, node *topology.Node, overwrite bool) error {
	if node.IP == "" {
		return &SigningError{msg: fmt.Sprintf("node %s has no address: run allocation first", node.Name)}
	}

	if err := s.EnsureCA(network, false); err != nil {
		return err
	}

	dir, err := files.NetworkDir(network)

	if err != nil {
		return err
	}

	caArtifacts, err := CAArtifacts(network)

	if err != nil {
		return err
	}

	artifacts, err := NodeArtifacts(network, node)

	if err != nil {
		return err
	}

	id, err := s.ids.GetId()

	if err != nil {
		return err
	}

	containerName := fmt.Sprintf("%s_sign_cert_%s", node.Name, id)

	certArgs := []string{
		"sign",
		"-name", node.Name,
		"-ip", fmt.Sprintf("%s/%d", node.IP, network.Cidr),
		"-ca-crt", caArtifacts.Cert,
		"-ca-key", caArtifacts.Key,
		"-out-crt", artifacts.Cert,
		"-out-key", artifacts.Key,
		"-out-qr", artifacts.QR,
	}

	if err := s.ensure(artifacts, overwrite, containerName, dir, certArgs); err != nil {
		return err
	}

	logging.Log.WriteInfof("node %s certificate is complete", node.Name)
	return nil
}

// SignAll signs every node of the network in declaration order
func (s *NebulaCertSigner) SignAll(network *topology.Network, overwrite bool) error {
	if err := s.EnsureCA(network, overwrite); err != nil {
		return err
	}

	for index := range network.Nodes {
		if err := s.SignNode(network, &network.Nodes[index], overwrite); err != nil {
			return err
		}
	}

	return nil
}
