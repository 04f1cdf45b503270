package memory

import (
	"sort"

	"github.com/assetdeal/registry-network/modules/deals/internal/entity"
)

func sortDealsByCreatedAtDesc(list []*entity.Deal) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		// stable order for deals created in the same instant
		return list[i].Id.String() < list[j].Id.String()
	})
}
