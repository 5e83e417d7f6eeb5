package internal

import (
	"math"
	"sort"
)

// Partition a triangulated polygon into convex faces, by deleting every
// diagonal that isn't needed to keep both of its ends convex, and then walking
// the faces that remain.

// A neighbor of a vertex, linked to the neighbors on either side of it in
// bearing order.
type bearingInfo struct {
	prev    int
	bearing float64
	next    int
}

type edge [2]int

func sortedEdge(i, j int) edge {
	if i > j {
		return edge{j, i}
	}
	return edge{i, j}
}

// Edges between consecutive ring indices are on the perimeter. Everything
// else is a diagonal.
func isPerimeter(i, j, n int) bool {
	d := i - j
	if d < 0 {
		d = -d
	}
	return d == 1 || d == n-1
}

// Merge triangles of a counterclockwise polygon into convex faces, each listed
// counterclockwise. If triangles is nil, the polygon is triangulated first.
func ConvexPartition(points []Point, triangles []Triangle) []Face {
	if triangles == nil {
		triangles = TriangulatePolygon(points)
	}
	n := len(points)

	neighbors := make([]map[int]float64, n)
	for i := range neighbors {
		neighbors[i] = make(map[int]float64)
	}
	diagonals := make(map[edge]bool)
	for _, triangle := range triangles {
		for k := range triangle {
			i1, i2 := triangle[k], triangle[(k+1)%3]
			bearing := Segment{points[i1], points[i2]}.Bearing()
			neighbors[i1][i2] = bearing
			if bearing > math.Pi {
				neighbors[i2][i1] = bearing - math.Pi
			} else {
				neighbors[i2][i1] = bearing + math.Pi
			}
			if !isPerimeter(i1, i2, n) {
				diagonals[sortedEdge(i1, i2)] = true
			}
		}
	}

	adjacency := make([]map[int]bearingInfo, n)
	for i := range adjacency {
		adjacency[i] = linkByBearing(neighbors[i])
	}

	// Delete inessential diagonals until nothing changes. Deleting one can
	// make its neighbors deletable, or essential, so they're checked again.
	changed := sortedEdges(diagonals)
	for len(changed) > 0 {
		requeue := make(map[edge]bool)
		for _, d := range changed {
			i1, i2 := d[0], d[1]
			if _, ok := adjacency[i1][i2]; !ok {
				continue
			}
			if dividesReflex(adjacency[i1], i2) || dividesReflex(adjacency[i2], i1) {
				continue
			}
			for _, pair := range []edge{{i1, i2}, {i2, i1}} {
				src, dst := pair[0], pair[1]
				info := adjacency[src]
				removed := info[dst]
				prev, next := info[removed.prev], info[removed.next]
				prev.next = removed.next
				info[removed.prev] = prev
				next.prev = removed.prev
				info[removed.next] = next
				for _, other := range []int{removed.prev, removed.next} {
					if key := sortedEdge(src, other); diagonals[key] {
						requeue[key] = true
					}
				}
			}
			delete(adjacency[i1], i2)
			delete(adjacency[i2], i1)
		}
		changed = sortedEdges(requeue)
	}

	return walkFaces(adjacency, n)
}

// Link a vertex's neighbors into a circular list in bearing order.
func linkByBearing(bearings map[int]float64) map[int]bearingInfo {
	order := make([]int, 0, len(bearings))
	for j := range bearings {
		order = append(order, j)
	}
	sort.Slice(order, func(a, b int) bool {
		ba, bb := bearings[order[a]], bearings[order[b]]
		if ba != bb {
			return ba < bb
		}
		return order[a] < order[b]
	})

	linked := make(map[int]bearingInfo, len(order))
	for k, j := range order {
		linked[j] = bearingInfo{
			prev:    order[CircularIndex(k-1, len(order))],
			bearing: bearings[j],
			next:    order[CircularIndex(k+1, len(order))],
		}
	}
	return linked
}

// Whether the edge to dst splits an angle of at least half a turn, in which
// case removing it would leave a reflex vertex.
func dividesReflex(info map[int]bearingInfo, dst int) bool {
	at := info[dst]
	angle := math.Mod(info[at.next].bearing-info[at.prev].bearing, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle >= math.Pi
}

// Collect faces breadth first, starting from the first perimeter edge. From
// each vertex, the walk turns onto the neighbor just clockwise of the one it
// came from, which keeps the face on the left.
func walkFaces(adjacency []map[int]bearingInfo, n int) []Face {
	var faces []Face
	frontier := []edge{{0, 1}}
	visited := make(map[edge]bool)
	for len(frontier) > 0 {
		start := frontier[0]
		frontier = frontier[1:]
		if visited[start] {
			continue
		}
		visited[start] = true

		current, next := start[0], start[1]
		face := Face{current}
		for next != start[0] {
			after := adjacency[next][current].prev
			current, next = next, after
			face = append(face, current)
			visited[edge{current, next}] = true
			if !visited[edge{next, current}] && !isPerimeter(next, current, n) {
				frontier = append(frontier, edge{next, current})
			}
		}
		faces = append(faces, face)
	}
	return faces
}

func sortedEdges(set map[edge]bool) []edge {
	edges := make([]edge, 0, len(set))
	for e := range set {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})
	return edges
}
