package junction

import (
	"fmt"
	"io"
	"strconv"

	"github.com/awalterschulze/gographviz"
)

type dotEdgeKey struct {
	chr      int32
	from     int32
	to       int32
	positive bool
}

// DumpVertexDot writes the ±cnt junction neighborhood of every instance of
// vertex v as a graphviz digraph. Positive strand walks are blue, negative
// red; edge labels carry the label character, chromosome, position and
// length.
func (storage *Storage) DumpVertexDot(v int64, cnt int, w io.Writer) error {
	g := gographviz.NewGraph()
	g.SetName("G")
	g.SetDir(true)
	g.SetStrict(false)

	nodes := make(map[int64]bool)
	visit := make(map[dotEdgeKey]bool)
	addNode := func(id int64) string {
		name := "\"" + strconv.FormatInt(id, 10) + "\""
		if !nodes[id] {
			nodes[id] = true
			g.AddNode("G", name, nil)
		}
		return name
	}
	addEdge := func(it, jt SequentialIterator) {
		key := dotEdgeKey{chr: int32(it.ChrID()), from: int32(it.Index()), to: int32(jt.Index()), positive: it.IsPositiveStrand()}
		if visit[key] {
			return
		}
		visit[key] = true
		attr := make(map[string]string)
		color := "blue"
		if !it.IsPositiveStrand() {
			color = "red"
		}
		attr["color"] = color
		attr["label"] = fmt.Sprintf("\"%c, %d, %d, %d\"", it.Char(), it.ChrID(), it.Position(), jt.Position()-it.Position())
		g.AddEdge(addNode(it.VertexID()), addNode(jt.VertexID()), true, attr)
	}

	for kt := storage.Iterate(v); kt.Valid(); kt = kt.Next() {
		jt := kt.SequentialIterator()
		for i := 0; i < cnt; i++ {
			it := jt.Prev()
			if !it.Valid() {
				break
			}
			addEdge(it, jt)
			jt = it
		}
		it := kt.SequentialIterator()
		for i := 0; i < cnt; i++ {
			jt := it.Next()
			if !jt.Valid() {
				break
			}
			addEdge(it, jt)
			it = jt
		}
	}

	_, err := io.WriteString(w, g.String())
	return err
}
