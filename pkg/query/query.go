package query

import (
	"encoding/json"
	"fmt"

	"github.com/jmespath/go-jmespath"
	"github.com/nebtools/nebgen/pkg/lib"
	"github.com/nebtools/nebgen/pkg/topology"
)

// QueryError: query error if something went wrong
type QueryError struct {
	msg string
}

func (e *QueryError) Error() string {
	return e.msg
}

// QueryNode: represents a single node in the query
type QueryNode struct {
	Name       string   `json:"name"`
	IP         string   `json:"ip"`
	Port       int      `json:"port"`
	Lighthouse bool     `json:"lighthouse"`
	Public     string   `json:"public"`
	Groups     []string `json:"groups"`
}

// NodeToQueryNode: convert a topology node into the query abstraction
func NodeToQueryNode(node topology.Node) *QueryNode {
	groups := lib.Map(node.Groups, func(selector topology.GroupSelector) string {
		if selector.Rule != nil {
			return selector.Rule.Group
		}

		return selector.Group
	})

	return &QueryNode{
		Name:       node.Name,
		IP:         node.IP,
		Port:       node.Port,
		Lighthouse: node.Lighthouse,
		Public:     node.Public,
		Groups:     groups,
	}
}

// QueryNetwork: queries the network's nodes in JMESPath syntax
func QueryNetwork(network *topology.Network, queryParams string) ([]byte, error) {
	nodes := lib.Map(network.Nodes, NodeToQueryNode)

	// jmespath walks plain maps and slices, not structs
	marshalled, err := json.Marshal(nodes)

	if err != nil {
		return nil, err
	}

	var generic interface{}

	if err := json.Unmarshal(marshalled, &generic); err != nil {
		return nil, err
	}

	result, err := jmespath.Search(queryParams, generic)

	if err != nil {
		return nil, &QueryError{msg: fmt.Sprintf("invalid query: %s", err.Error())}
	}

	return json.Marshal(result)
}
