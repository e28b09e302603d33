package tree_test

import (
	"math/rand"
	"testing"

	"github.com/frahmantamala/rbac-admin/internal/core/tree"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestTree(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Tree Suite")
}

type item struct {
	ID       int64
	ParentID int64
}

var acc = tree.Accessor[item]{
	ID:       func(i item) int64 { return i.ID },
	ParentID: func(i item) int64 { return i.ParentID },
}

func ids(nodes []*tree.Node[item]) []int64 {
	out := []int64{}
	for _, n := range nodes {
		out = append(out, n.Item.ID)
	}
	return out
}

var _ = Describe("Build", func() {
	It("returns an empty forest for empty input", func() {
		Expect(tree.Build(nil, acc, tree.RootID)).To(BeEmpty())
		Expect(tree.Build([]item{}, acc, tree.RootID)).NotTo(BeNil())
	})

	It("nests a three level chain", func() {
		forest := tree.Build([]item{{1, -1}, {2, 1}, {3, 2}}, acc, tree.RootID)

		Expect(ids(forest)).To(Equal([]int64{1}))
		Expect(ids(forest[0].Children)).To(Equal([]int64{2}))
		Expect(ids(forest[0].Children[0].Children)).To(Equal([]int64{3}))
		Expect(forest[0].Children[0].Children[0].Children).To(BeEmpty())
	})

	It("keeps siblings in input order", func() {
		forest := tree.Build([]item{{1, -1}, {5, 1}, {3, 1}, {4, 1}}, acc, tree.RootID)
		Expect(ids(forest[0].Children)).To(Equal([]int64{5, 3, 4}))
	})

	It("attaches children that appear before their parent", func() {
		forest := tree.Build([]item{{2, 1}, {1, -1}}, acc, tree.RootID)
		Expect(ids(forest)).To(Equal([]int64{1}))
		Expect(ids(forest[0].Children)).To(Equal([]int64{2}))
	})

	It("drops orphans without failing", func() {
		forest := tree.Build([]item{{1, -1}, {2, 1}, {9, 42}}, acc, tree.RootID)
		flat := tree.Flatten(forest, acc, tree.RootID)
		Expect(flat).To(HaveLen(2))
		for _, f := range flat {
			Expect(f.Item.ID).NotTo(Equal(int64(9)))
		}
	})

	Context("with a single item", func() {
		It("returns it when its parent is the sentinel", func() {
			Expect(ids(tree.Build([]item{{7, -1}}, acc, tree.RootID))).To(Equal([]int64{7}))
		})

		It("returns nothing when its parent is missing", func() {
			Expect(tree.Build([]item{{7, 3}}, acc, tree.RootID)).To(BeEmpty())
		})

		It("uses the supplied root instead of -1", func() {
			Expect(ids(tree.Build([]item{{7, 3}}, acc, 3))).To(Equal([]int64{7}))
			Expect(tree.Build([]item{{7, -1}}, acc, 3)).To(BeEmpty())
		})
	})

	It("supports a non-default root", func() {
		forest := tree.Build([]item{{10, 5}, {11, 10}, {12, 5}}, acc, 5)
		Expect(ids(forest)).To(Equal([]int64{10, 12}))
		Expect(ids(forest[0].Children)).To(Equal([]int64{11}))
	})

	It("ignores self-parented items", func() {
		forest := tree.Build([]item{{1, -1}, {2, 2}}, acc, tree.RootID)
		Expect(tree.Flatten(forest, acc, tree.RootID)).To(HaveLen(1))
	})
})

var _ = Describe("Flatten round trip", func() {
	randomForest := func(r *rand.Rand, n int) []item {
		items := make([]item, 0, n)
		for i := 1; i <= n; i++ {
			parent := int64(-1)
			if i > 1 && r.Intn(4) != 0 {
				parent = int64(r.Intn(i-1) + 1)
			}
			items = append(items, item{ID: int64(i), ParentID: parent})
		}
		r.Shuffle(len(items), func(a, b int) { items[a], items[b] = items[b], items[a] })
		return items
	}

	It("reproduces every parent link of an acyclic input", func() {
		r := rand.New(rand.NewSource(42))
		for round := 0; round < 50; round++ {
			items := randomForest(r, r.Intn(30)+1)
			want := map[int64]int64{}
			for _, it := range items {
				want[it.ID] = it.ParentID
			}

			flat := tree.Flatten(tree.Build(items, acc, tree.RootID), acc, tree.RootID)
			got := map[int64]int64{}
			for _, f := range flat {
				got[f.Item.ID] = f.ParentID
			}
			Expect(got).To(Equal(want))

			rebuilt := make([]item, 0, len(flat))
			for _, f := range flat {
				rebuilt = append(rebuilt, item{ID: f.Item.ID, ParentID: f.ParentID})
			}
			again := tree.Flatten(tree.Build(rebuilt, acc, tree.RootID), acc, tree.RootID)
			Expect(again).To(Equal(flat))
		}
	})
})

var _ = Describe("Map", func() {
	type view struct {
		ID       int64
		Children []view
	}

	It("converts the forest recursively", func() {
		forest := tree.Build([]item{{1, -1}, {2, 1}}, acc, tree.RootID)
		out := tree.Map(forest,
			func(i item) view { return view{ID: i.ID} },
			func(v view, children []view) view { v.Children = children; return v })

		Expect(out).To(HaveLen(1))
		Expect(out[0].Children).To(HaveLen(1))
		Expect(out[0].Children[0].ID).To(Equal(int64(2)))
		Expect(out[0].Children[0].Children).To(BeEmpty())
	})
})
