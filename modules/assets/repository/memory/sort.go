package memory

import (
	"sort"
	"strings"

	"github.com/assetdeal/registry-network/modules/assets/internal/entity"
)

func sortClassesByName(classes []*entity.AssetClass) {
	sort.Slice(classes, func(i, j int) bool {
		if c := strings.Compare(classes[i].Name, classes[j].Name); c != 0 {
			return c < 0
		}
		return classes[i].Id.String() < classes[j].Id.String()
	})
}

func sortTokensByOwnerIndex(tokens []*entity.Token) {
	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].OwnerIndex < tokens[j].OwnerIndex
	})
}
