package common

type Module string

const (
	ModuleAssets Module = "assets"
	ModuleDeals  Module = "deals"
)

func (m Module) String() string {
	return string(m)
}
