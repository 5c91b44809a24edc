package layout

import (
	"fmt"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"

	"github.com/ferrokern/memlayout/memutils"
)

// BuildLayoutString renders the whole layout as a JSON document for
// diagnostics: per-tree statistics plus every block in address order.
func (l *MemoryLayout) BuildLayoutString() string {
	writer := jwriter.NewWriter()

	obj := writer.Object()
	l.LayoutJsonData(obj)
	obj.End()

	return string(writer.Bytes())
}

// LayoutJsonData populates a json object with the contents of all four trees.
func (l *MemoryLayout) LayoutJsonData(json jwriter.ObjectState) {
	var stats memutils.DetailedStatistics
	stats.Clear()
	l.physical.AddDetailedStatistics(&stats)
	l.virtual.AddDetailedStatistics(&stats)

	json.Name("Finalized").Bool(l.finalized)

	statsObj := json.Name("Statistics").Object()
	statsObj.Name("TreeCount").Int(stats.TreeCount)
	statsObj.Name("RegionCount").Int(stats.RegionCount)
	statsObj.Name("FreeRegionCount").Int(stats.FreeRegionCount)
	statsObj.Name("RegionBytes").Float64(float64(stats.RegionBytes))
	statsObj.End()

	trees := []struct {
		name string
		tree *MemoryBlockTree
	}{
		{"Physical", l.physical},
		{"Virtual", l.virtual},
		{"PhysicalLinear", l.physicalLinear},
		{"VirtualLinear", l.virtualLinear},
	}

	for _, entry := range trees {
		treeObj := json.Name(entry.name).Object()
		entry.tree.TreeJsonData(treeObj)
		treeObj.End()
	}
}

// TreeJsonData populates a json object with this tree's governed space and
// block list.
func (t *MemoryBlockTree) TreeJsonData(json jwriter.ObjectState) {
	json.Name("Start").String(fmt.Sprintf("%#x", t.start))
	json.Name("Size").String(fmt.Sprintf("%#x", t.size))
	json.Name("BlockCount").Int(t.blocks.Len())

	arrayState := json.Name("Blocks").Array()
	defer arrayState.End()

	_ = t.VisitAllBlocks(func(b *MemoryBlock) error {
		obj := arrayState.Object()
		b.BlockJsonData(obj)
		obj.End()
		return nil
	})
}

// BlockJsonData populates a json object with information about this block.
func (b *MemoryBlock) BlockJsonData(json jwriter.ObjectState) {
	json.Name("Address").String(fmt.Sprintf("%#x", b.address))
	json.Name("Size").String(fmt.Sprintf("%#x", b.size))
	json.Name("Type").String(b.typeID.String())
	json.Name("Attributes").String(fmt.Sprintf("%#x", uint32(b.attributes)))

	if b.pairAddress != PairAddressNone {
		json.Name("PairAddress").String(fmt.Sprintf("%#x", b.pairAddress))
	}
}
