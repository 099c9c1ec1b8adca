// cert drives the external signing process that produces the network
// authority certificate and the per-node certificates chained to it.
// The filesystem is the only record of signing state: an artifact set is
// complete exactly when its three output files exist.
package cert

import (
	"fmt"
	"os"
	"strings"

	"github.com/nebtools/nebgen/pkg/files"
	"github.com/nebtools/nebgen/pkg/topology"
)

type State int

const (
	// Absent: none of the three output files exist
	Absent State = iota
	// Partial: some but not all output files exist. Never reached
	// intentionally; always an error.
	Partial
	// Complete: all three output files exist
	Complete
)

// IntegrityError: an artifact set was observed in the partial state. It
// is never repaired automatically; the missing paths are reported so an
// operator can intervene.
type IntegrityError struct {
	Missing []string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("missing some of the following files: %s", strings.Join(e.Missing, ", "))
}

// SigningError: the external signing process failed or did not produce
// its outputs
type SigningError struct {
	msg string
}

func (e *SigningError) Error() string {
	return e.msg
}

// ArtifactSet is the certificate, private key and QR image produced by
// one signing operation, for the authority or for one node
type ArtifactSet struct {
	Cert string
	Key  string
	QR   string
}

func artifactSet(prefix string) ArtifactSet {
	return ArtifactSet{
		Cert: prefix + ".crt",
		Key:  prefix + ".key",
		QR:   prefix + ".png",
	}
}

// CAArtifacts is the artifact set of the network authority
func CAArtifacts(network *topology.Network) (ArtifactSet, error) {
	prefix, err := files.CAPrefix(network)

	if err != nil {
		return ArtifactSet{}, err
	}

	return artifactSet(prefix), nil
}

// NodeArtifacts is the artifact set of one node
func NodeArtifacts(network *topology.Network, node *topology.Node) (ArtifactSet, error) {
	prefix, err := files.NodePrefix(network, node.Name)

	if err != nil {
		return ArtifactSet{}, err
	}

	return artifactSet(prefix), nil
}

func (a ArtifactSet) Paths() []string {
	return []string{a.Cert, a.Key, a.QR}
}

// Missing returns the paths of the set that do not exist on disk
func (a ArtifactSet) Missing() []string {
	missing := make([]string, 0)

	for _, path := range a.Paths() {
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, path)
		}
	}

	return missing
}

func (a ArtifactSet) State() State {
	switch len(a.Missing()) {
	case 0:
		return Complete
	case len(a.Paths()):
		return Absent
	default:
		return Partial
	}
}

// Remove deletes whichever files of the set exist, reverting it to
// absent
func (a ArtifactSet) Remove() error {
	for _, path := range a.Paths() {
		err := os.Remove(path)

		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}
