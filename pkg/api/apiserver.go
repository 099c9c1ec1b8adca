// api exposes a read-only HTTP view of a provisioned network: its nodes
// and their composed configuration documents
package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nebtools/nebgen/pkg/composer"
	"github.com/nebtools/nebgen/pkg/config"
	"github.com/nebtools/nebgen/pkg/ip"
	logging "github.com/nebtools/nebgen/pkg/log"
	"github.com/nebtools/nebgen/pkg/topology"
)

type ApiServer interface {
	GetNetwork(c *gin.Context)
	GetNodes(c *gin.Context)
	GetNodeConfig(c *gin.Context)
	Run(addr string) error
}

type GenServer struct {
	router  *gin.Engine
	network *topology.Network
}

func nodeToApiNode(node topology.Node) ApiNode {
	groups := make([]string, len(node.Groups))

	for index, selector := range node.Groups {
		if selector.Rule != nil {
			groups[index] = selector.Rule.Group
			continue
		}

		groups[index] = selector.Group
	}

	return ApiNode{
		Name:       node.Name,
		IP:         node.IP,
		Port:       node.Port,
		Lighthouse: node.Lighthouse,
		Public:     node.Public,
		Groups:     groups,
	}
}

// GetNetwork: returns a summary of the served network
func (s *GenServer) GetNetwork(c *gin.Context) {
	prefix, err := topology.Prefix(s.network)

	if err != nil {
		c.JSON(http.StatusInternalServerError, &gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ApiNetwork{
		CertAuthority: s.network.CertAuthority,
		Prefix:        prefix.String(),
		NodeCount:     len(s.network.Nodes),
	})
}

// GetNodes: returns every node of the network in declaration order
func (s *GenServer) GetNodes(c *gin.Context) {
	nodes := make([]ApiNode, len(s.network.Nodes))

	for index, node := range s.network.Nodes {
		nodes[index] = nodeToApiNode(node)
	}

	c.JSON(http.StatusOK, nodes)
}

// GetNodeConfig: returns the composed configuration document of the
// given node as YAML
func (s *GenServer) GetNodeConfig(c *gin.Context) {
	nameParam := c.Param("name")

	node, err := topology.FindNode(s.network, nameParam)

	if err != nil {
		c.JSON(http.StatusNotFound, &gin.H{
			"error": fmt.Sprintf("could not find node %s", nameParam),
		})
		return
	}

	composed, err := composer.Compose(s.network, node, nil)

	if err != nil {
		c.JSON(http.StatusInternalServerError, &gin.H{
			"error": err.Error(),
		})
		return
	}

	yamlStr, err := config.Dump(composed)

	if err != nil {
		c.JSON(http.StatusInternalServerError, &gin.H{
			"error": err.Error(),
		})
		return
	}

	c.String(http.StatusOK, yamlStr)
}

func (s *GenServer) Run(addr string) error {
	logging.Log.WriteInfof("Running API server")
	return s.router.Run(addr)
}

func NewApiServer(conf ApiServerConf) (ApiServer, error) {
	network, err := topology.ParseTopology(conf.TopologyPath)

	if err != nil {
		return nil, err
	}

	allocator := &ip.PoolAllocator{}

	if err := allocator.Allocate(network); err != nil {
		return nil, err
	}

	router := gin.Default()

	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output: logging.Log.Writer(),
	}))

	genServer := &GenServer{
		router:  router,
		network: network,
	}

	router.GET("/network", genServer.GetNetwork)
	router.GET("/nodes", genServer.GetNodes)
	router.GET("/nodes/:name/config", genServer.GetNodeConfig)
	return genServer, nil
}
