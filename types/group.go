package types

// ZResolution selects how a merger group resolves its Z value from the
// members' samples.
type ZResolution int

const (
	// ZMean resolves Z to the arithmetic mean of the members.
	ZMean ZResolution = iota

	// ZMin resolves Z to the smallest member sample.
	ZMin

	// ZMax resolves Z to the largest member sample.
	ZMax
)

// IsMergerGroup reports whether this vertex has been upgraded to a group
// of coincident input vertices.
func (v *Vertex) IsMergerGroup() bool {
	return len(v.group) > 0
}

// MergerGroupMembers returns the coincident vertices collected in this
// slot. The slice is nil for an ordinary vertex.
func (v *Vertex) MergerGroupMembers() []*Vertex {
	return v.group
}

// SetZResolution changes the resolution rule and recomputes Z.
func (v *Vertex) SetZResolution(rule ZResolution) {
	v.rule = rule
	v.resolveZ()
}

// AddToMergerGroup upgrades the vertex to a merger group (on first call
// the vertex itself becomes the first member) and folds in the coincident
// vertex m. The planar coordinates of the slot do not change; Z is
// recomputed under the group's resolution rule.
func (v *Vertex) AddToMergerGroup(m *Vertex) {
	if len(v.group) == 0 {
		first := *v
		first.group = nil
		v.group = append(v.group, &first)
	}
	v.group = append(v.group, m)
	if m.IsConstraintMember() {
		v.Status |= StatusConstraintMember
	}
	v.resolveZ()
}

func (v *Vertex) resolveZ() {
	if len(v.group) == 0 {
		return
	}
	switch v.rule {
	case ZMin:
		z := v.group[0].Z
		for _, m := range v.group[1:] {
			if m.Z < z {
				z = m.Z
			}
		}
		v.Z = z
	case ZMax:
		z := v.group[0].Z
		for _, m := range v.group[1:] {
			if m.Z > z {
				z = m.Z
			}
		}
		v.Z = z
	default:
		sum := 0.0
		for _, m := range v.group {
			sum += m.Z
		}
		v.Z = sum / float64(len(v.group))
	}
}
