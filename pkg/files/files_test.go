package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nebtools/nebgen/pkg/topology"
)

func getTestNetwork() *topology.Network {
	return &topology.Network{
		CertAuthority: "TestCA",
		IP:            "10.100.100.0",
		Cidr:          24,
	}
}

func TestNetworkDirIsNamedAfterAuthority(t *testing.T) {
	dir, err := NetworkDir(getTestNetwork())

	if err != nil {
		t.Error(err)
	}

	if filepath.Base(dir) != "TestCA" {
		t.Fatalf(`Have %s want TestCA`, filepath.Base(dir))
	}

	if !filepath.IsAbs(dir) {
		t.Fatal(`the network directory should be absolute`)
	}
}

func TestNetworkDirSanitizesAuthority(t *testing.T) {
	network := getTestNetwork()
	network.CertAuthority = "Test CA"

	dir, err := NetworkDir(network)

	if err != nil {
		t.Error(err)
	}

	if filepath.Base(dir) != "TestCA" {
		t.Fatalf(`Have %s want TestCA`, filepath.Base(dir))
	}
}

func TestCAPrefixNaming(t *testing.T) {
	prefix, err := CAPrefix(getTestNetwork())

	if err != nil {
		t.Error(err)
	}

	if !strings.HasSuffix(prefix, filepath.Join("TestCA", "TestCA_10.100.100.0_24")) {
		t.Fatalf(`Have %s want the authority naming convention`, prefix)
	}
}

func TestNodePathsNaming(t *testing.T) {
	network := getTestNetwork()

	prefix, err := NodePrefix(network, "node-a")

	if err != nil {
		t.Error(err)
	}

	if filepath.Base(prefix) != "node-a" {
		t.Fatalf(`Have %s want node-a`, filepath.Base(prefix))
	}

	configPath, err := NodeConfigPath(network, "node-a")

	if err != nil {
		t.Error(err)
	}

	if filepath.Base(configPath) != "node-a.yaml" {
		t.Fatalf(`Have %s want node-a.yaml`, filepath.Base(configPath))
	}

	composePath, err := NodeComposePath(network, "node-a")

	if err != nil {
		t.Error(err)
	}

	if filepath.Base(composePath) != "node-a_compose.yml" {
		t.Fatalf(`Have %s want node-a_compose.yml`, filepath.Base(composePath))
	}
}

func TestEnsureNetworkDirCreatesDirectory(t *testing.T) {
	workingDir, err := os.Getwd()

	if err != nil {
		t.Error(err)
	}

	if err := os.Chdir(t.TempDir()); err != nil {
		t.Error(err)
	}

	t.Cleanup(func() {
		os.Chdir(workingDir)
	})

	dir, err := EnsureNetworkDir(getTestNetwork())

	if err != nil {
		t.Error(err)
	}

	info, err := os.Stat(dir)

	if err != nil {
		t.Error(err)
	}

	if !info.IsDir() {
		t.Fatal(`expected a directory`)
	}
}
