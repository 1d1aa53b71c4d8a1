package quest

import (
	"context"
	"sort"
)

// Resolver computes requirement rollups over a catalog. Prerequisite data
// is externally curated and may contain cycles.
type Resolver struct {
	catalog *Catalog
	augment Augmentation
}

func NewResolver(catalog *Catalog, augment Augmentation) *Resolver {
	return &Resolver{catalog: catalog, augment: augment}
}

func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

// Rollup walks every quest reachable from questID depth first, max-merging
// skill levels of each visited quest (questID included) and collecting every
// prerequisite id except questID itself. Unknown ids end their branch.
func (r *Resolver) Rollup(ctx context.Context, questID int) (Rollup, error) {
	if err := r.catalog.ensure(ctx); err != nil {
		return Rollup{}, err
	}
	quests := r.catalog.byID

	skills := Skills{}
	collected := make(map[int]struct{})
	visited := make(map[int]struct{})

	stack := []int{questID}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[current]; seen {
			continue
		}
		visited[current] = struct{}{}

		def, ok := quests[current]
		if !ok {
			continue
		}
		skills.Merge(def.Requirements.Skills)

		prereqs := r.augment.Extend(current, def.Requirements.Quests)
		// Push in reverse so children are visited in list order.
		for i := len(prereqs) - 1; i >= 0; i-- {
			child := prereqs[i]
			if child != questID {
				collected[child] = struct{}{}
			}
			if _, seen := visited[child]; !seen {
				stack = append(stack, child)
			}
		}
	}

	ids := make([]int, 0, len(collected))
	for id := range collected {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return Rollup{Skills: skills, Quests: ids}, nil
}
