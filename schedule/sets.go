package schedule

func copySet(src map[ID]struct{}) map[ID]struct{} {
	out := make(map[ID]struct{}, len(src))
	for k := range src {
		out[k] = struct{}{}
	}
	return out
}

func intersectSet(a, b map[ID]struct{}) map[ID]struct{} {
	out := make(map[ID]struct{})
	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

func subtractSet(a, b map[ID]struct{}) map[ID]struct{} {
	out := make(map[ID]struct{})
	for k := range a {
		if _, ok := b[k]; !ok {
			out[k] = struct{}{}
		}
	}
	return out
}

func toSet(ids []ID) map[ID]struct{} {
	out := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func deepCopyAdjacency(src map[ID]map[ID]struct{}) map[ID]map[ID]struct{} {
	out := make(map[ID]map[ID]struct{}, len(src))
	for k, v := range src {
		out[k] = copySet(v)
	}
	return out
}
