package main

import (
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/anandvarma/namegen"
	"github.com/nebtools/nebgen/pkg/cert"
	"github.com/nebtools/nebgen/pkg/cmd"
	"github.com/nebtools/nebgen/pkg/composer"
	"github.com/nebtools/nebgen/pkg/deploy"
	"github.com/nebtools/nebgen/pkg/files"
	"github.com/nebtools/nebgen/pkg/ip"
	logging "github.com/nebtools/nebgen/pkg/log"
	"github.com/nebtools/nebgen/pkg/provision"
	"github.com/nebtools/nebgen/pkg/query"
	"github.com/nebtools/nebgen/pkg/topology"
	"gopkg.in/yaml.v3"
)

func initTopology(outputPath, authority, networkIP string, cidr, nodeCount int) error {
	generator := namegen.New()

	nodes := make([]topology.Node, nodeCount)

	for index := range nodes {
		nodes[index] = topology.Node{
			Name: generator.Get(),
			Port: topology.DefaultNodePort,
		}
	}

	// the first node acts as the rendezvous point; fill in its real
	// endpoint before building
	if nodeCount > 0 {
		nodes[0].Lighthouse = true
		nodes[0].Public = fmt.Sprintf("203.0.113.1:%d", topology.DefaultNodePort)
	}

	network := topology.Network{
		CertAuthority: authority,
		IP:            networkIP,
		Cidr:          cidr,
		Nodes:         nodes,
	}

	yamlBytes, err := yaml.Marshal(&network)

	if err != nil {
		return err
	}

	return os.WriteFile(outputPath, yamlBytes, 0o644)
}

func build(topologyPath string, overwrite bool) error {
	network, err := topology.ParseTopology(topologyPath)

	if err != nil {
		return err
	}

	provisioner := provision.NewProvisioner(&provision.NewProvisionerParams{
		Runner: &cmd.UnixCmdRunner{},
	})

	return provisioner.Run(network, overwrite)
}

func sign(topologyPath, nodeName string, overwrite bool) error {
	network, err := topology.ParseTopology(topologyPath)

	if err != nil {
		return err
	}

	allocator := &ip.PoolAllocator{}

	if err := allocator.Allocate(network); err != nil {
		return err
	}

	signer := cert.NewSigner(&cert.NewSignerParams{Runner: &cmd.UnixCmdRunner{}})

	if nodeName == "" {
		return signer.SignAll(network, overwrite)
	}

	node, err := topology.FindNode(network, nodeName)

	if err != nil {
		return err
	}

	return signer.SignNode(network, node, overwrite)
}

func printConfig(topologyPath, nodeName string) error {
	network, err := topology.ParseTopology(topologyPath)

	if err != nil {
		return err
	}

	allocator := &ip.PoolAllocator{}

	if err := allocator.Allocate(network); err != nil {
		return err
	}

	node, err := topology.FindNode(network, nodeName)

	if err != nil {
		return err
	}

	composed, err := composer.Compose(network, node, nil)

	if err != nil {
		return err
	}

	node.Config = composed

	yamlStr, err := composer.DumpNode(node)

	if err != nil {
		return err
	}

	fmt.Print(yamlStr)
	return nil
}

// networkOutputs lists every file the pipeline produces for the network:
// authority artifacts, then per-node artifacts, configs and composition
// descriptors
func networkOutputs(network *topology.Network) ([]string, error) {
	caArtifacts, err := cert.CAArtifacts(network)

	if err != nil {
		return nil, err
	}

	outputs := caArtifacts.Paths()

	for index := range network.Nodes {
		node := &network.Nodes[index]

		nodeArtifacts, err := cert.NodeArtifacts(network, node)

		if err != nil {
			return nil, err
		}

		outputs = append(outputs, nodeArtifacts.Paths()...)

		configPath, err := files.NodeConfigPath(network, node.Name)

		if err != nil {
			return nil, err
		}

		composePath, err := files.NodeComposePath(network, node.Name)

		if err != nil {
			return nil, err
		}

		outputs = append(outputs, configPath, composePath)
	}

	return outputs, nil
}

func export(topologyPath, archivePath, globPattern string) error {
	network, err := topology.ParseTopology(topologyPath)

	if err != nil {
		return err
	}

	outputs, err := networkOutputs(network)

	if err != nil {
		return err
	}

	return deploy.Export(archivePath, outputs, globPattern)
}

func runQuery(topologyPath, queryParams string) error {
	network, err := topology.ParseTopology(topologyPath)

	if err != nil {
		return err
	}

	allocator := &ip.PoolAllocator{}

	if err := allocator.Allocate(network); err != nil {
		return err
	}

	result, err := query.QueryNetwork(network, queryParams)

	if err != nil {
		return err
	}

	fmt.Println(string(result))
	return nil
}

func main() {
	parser := argparse.NewParser("nebgen",
		"nebgen generates certificates and configuration for nebula overlay networks")

	initCmd := parser.NewCommand("init", "Scaffold a topology file")
	buildCmd := parser.NewCommand("build", "Run the full pipeline over a topology")
	signCmd := parser.NewCommand("sign", "Sign certificates for a topology")
	configCmd := parser.NewCommand("config", "Print the composed configuration of a node")
	exportCmd := parser.NewCommand("export", "Bundle the network outputs into an archive")
	queryCmd := parser.NewCommand("query", "Query the topology with a JMESPath expression")

	var initOutput *string = initCmd.String("o", "output", &argparse.Options{Required: true})
	var initAuthority *string = initCmd.String("a", "authority", &argparse.Options{Required: true})
	var initIP *string = initCmd.String("i", "ip", &argparse.Options{Required: true})
	var initCidr *int = initCmd.Int("c", "cidr", &argparse.Options{Default: 24})
	var initCount *int = initCmd.Int("n", "nodes", &argparse.Options{Default: 3})

	var buildTopology *string = buildCmd.String("t", "topology", &argparse.Options{Required: true})
	var buildOverwrite *bool = buildCmd.Flag("w", "overwrite", &argparse.Options{})

	var signTopology *string = signCmd.String("t", "topology", &argparse.Options{Required: true})
	var signNode *string = signCmd.String("n", "node", &argparse.Options{})
	var signOverwrite *bool = signCmd.Flag("w", "overwrite", &argparse.Options{})

	var configTopology *string = configCmd.String("t", "topology", &argparse.Options{Required: true})
	var configNode *string = configCmd.String("n", "node", &argparse.Options{Required: true})

	var exportTopology *string = exportCmd.String("t", "topology", &argparse.Options{Required: true})
	var exportArchive *string = exportCmd.String("o", "output", &argparse.Options{Required: true})
	var exportGlob *string = exportCmd.String("g", "glob", &argparse.Options{})

	var queryTopology *string = queryCmd.String("t", "topology", &argparse.Options{Required: true})
	var queryParams *string = queryCmd.String("q", "query", &argparse.Options{Required: true})

	err := parser.Parse(os.Args)

	if err != nil {
		fmt.Print(parser.Usage(err))
		return
	}

	if initCmd.Happened() {
		err = initTopology(*initOutput, *initAuthority, *initIP, *initCidr, *initCount)
	}

	if buildCmd.Happened() {
		err = build(*buildTopology, *buildOverwrite)
	}

	if signCmd.Happened() {
		err = sign(*signTopology, *signNode, *signOverwrite)
	}

	if configCmd.Happened() {
		err = printConfig(*configTopology, *configNode)
	}

	if exportCmd.Happened() {
		err = export(*exportTopology, *exportArchive, *exportGlob)
	}

	if queryCmd.Happened() {
		err = runQuery(*queryTopology, *queryParams)
	}

	if err != nil {
		logging.Log.WriteErrorf(err.Error())
		os.Exit(1)
	}
}
