package registry

import "github.com/ethereum/go-ethereum/common"

// ComponentClass is the kind of wrapped position a basket component holds.
type ComponentClass int

const (
	ComponentUnclassified ComponentClass = iota
	ComponentBridge
	ComponentLendingWrapper
	ComponentYieldWrapper
)

func (c ComponentClass) String() string {
	switch c {
	case ComponentBridge:
		return "bridge"
	case ComponentLendingWrapper:
		return "lending_wrapper"
	case ComponentYieldWrapper:
		return "yield_wrapper"
	default:
		return "unclassified"
	}
}

var componentClasses = map[common.Address]ComponentClass{
	// Across WETH LP
	common.HexToAddress("0x28F77208728B0A45cAb24c4868334581Fe86F95B"): ComponentBridge,
	// Instadapp iETH v2
	common.HexToAddress("0xA0D3707c569ff8C87FA923d3823eC5D81c98Be78"): ComponentLendingWrapper,
	// Pendle principal tokens
	common.HexToAddress("0x1c085195437738d73d75DC64bC5A3E098b7f93b1"): ComponentYieldWrapper,
	common.HexToAddress("0x6ee2b5E19ECBa773a352E5B21415Dc419A700d1d"): ComponentYieldWrapper,
	common.HexToAddress("0xf7906F274c174A52d444175729E3fa98f9bde285"): ComponentYieldWrapper,
}

// ClassifyComponent matches a component address exactly against the known
// wrapper sets.
func ClassifyComponent(component common.Address) ComponentClass {
	return componentClasses[component]
}
