package render

import "io"

// RenderAll drains r and returns every triangle it produced. Like io.ReadAll
// it treats io.EOF as success.
func RenderAll(r Renderer) ([]Triangle3, error) {
	model := make([]Triangle3, 0, 1<<12)
	chunk := make([]Triangle3, 1<<10)
	for {
		n, err := r.ReadTriangles(chunk)
		model = append(model, chunk[:n]...)
		if err == io.EOF {
			return model, nil
		} else if err != nil {
			return model, err
		}
	}
}

// pending holds triangles produced but not yet handed to a reader.
type pending struct {
	tris []Triangle3
}

// drain copies queued triangles into dst and returns how many were copied.
func (p *pending) drain(dst []Triangle3) int {
	n := copy(dst, p.tris)
	p.tris = p.tris[n:]
	return n
}

func (p *pending) push(t ...Triangle3) { p.tris = append(p.tris, t...) }

func (p *pending) Len() int { return len(p.tris) }
