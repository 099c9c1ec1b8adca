package query

import (
	"encoding/json"
	"testing"

	"github.com/nebtools/nebgen/pkg/topology"
)

func getTestNetwork() *topology.Network {
	return &topology.Network{
		CertAuthority: "TestCA",
		IP:            "10.100.100.0",
		Cidr:          24,
		Nodes: []topology.Node{
			{Name: "node-a", IP: "10.100.100.5", Port: 4242},
			{Name: "node-b", IP: "10.100.100.6", Port: 4242, Lighthouse: true, Public: "203.0.113.1:4242"},
			{Name: "node-c", IP: "10.100.100.1", Port: 4242},
		},
	}
}

func TestQueryAllNames(t *testing.T) {
	result, err := QueryNetwork(getTestNetwork(), "[].name")

	if err != nil {
		t.Error(err)
	}

	var names []string

	if err := json.Unmarshal(result, &names); err != nil {
		t.Error(err)
	}

	if len(names) != 3 || names[0] != "node-a" || names[2] != "node-c" {
		t.Fatalf(`Have %v want the node names in order`, names)
	}
}

func TestQueryLighthouses(t *testing.T) {
	result, err := QueryNetwork(getTestNetwork(), "[?lighthouse].name")

	if err != nil {
		t.Error(err)
	}

	var names []string

	if err := json.Unmarshal(result, &names); err != nil {
		t.Error(err)
	}

	if len(names) != 1 || names[0] != "node-b" {
		t.Fatalf(`Have %v want only node-b`, names)
	}
}

func TestQueryInvalidExpression(t *testing.T) {
	_, err := QueryNetwork(getTestNetwork(), "[?")

	if err == nil {
		t.Fatal(`error should be thrown`)
	}
}

func TestNodeToQueryNodeFlattensGroups(t *testing.T) {
	node := topology.Node{
		Name: "node-a",
		Groups: []topology.GroupSelector{
			{Group: "ssh"},
		},
	}

	queryNode := NodeToQueryNode(node)

	if len(queryNode.Groups) != 1 || queryNode.Groups[0] != "ssh" {
		t.Fatalf(`Have %v want [ssh]`, queryNode.Groups)
	}
}
