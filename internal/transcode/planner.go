package transcode

import (
	"sort"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/catalog"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/format"
)

// Job is one TranscodeJob from spec.md §3: a single container/resolution
// variant to materialize from an existing source entry.
type Job struct {
	ID               string
	Title            string
	SourcePath       string
	SourceResolution format.Resolution
	TargetPath       string
	TargetResolution format.Resolution
	TargetContainer  format.Container
}

// Plan computes, for every title present in cat, the missing
// (container, resolution) tuples described in spec.md §4.C: the candidate
// set is every supported container crossed with every resolution up to the
// title's highest observed resolution, minus tuples already in the
// catalog. Each job's TargetPath comes from compose alone; dirFor is not
// consulted.
func Plan(cat *catalog.Catalog, dirFor func(title string) string, compose func(title string, res format.Resolution, container format.Container) string) []Job {
	var jobs []Job
	for _, title := range cat.Titles() {
		entries := cat.ByTitle(title)
		if len(entries) == 0 {
			continue
		}

		maxRes := entries[0].Resolution
		for _, e := range entries[1:] {
			if format.CompareResolution(e.Resolution, maxRes) > 0 {
				maxRes = e.Resolution
			}
		}

		present := make(map[catalogKey]bool, len(entries))
		for _, e := range entries {
			present[catalogKey{e.Resolution, e.Container}] = true
		}

		for _, container := range format.Containers {
			for _, res := range format.ResolutionsUpTo(maxRes) {
				if present[catalogKey{res, container}] {
					continue
				}
				src := pickSource(entries, title)
				if src == nil {
					continue
				}
				jobs = append(jobs, Job{
					Title:            title,
					SourcePath:       src.AbsolutePath,
					SourceResolution: src.Resolution,
					TargetResolution: res,
					TargetContainer:  container,
					TargetPath:       compose(title, res, container),
				})
			}
		}
	}
	return jobs
}

type catalogKey struct {
	res       format.Resolution
	container format.Container
}

// pickSource selects the entry with the highest resolution for title,
// ties broken by container order (spec.md §4.C: "the entry with the
// highest resolution in any container for that title, ties broken by
// container order").
func pickSource(entries []catalog.Entry, title string) *catalog.Entry {
	ordered := make([]catalog.Entry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		hi, hj := format.Height(ordered[i].Resolution), format.Height(ordered[j].Resolution)
		if hi != hj {
			return hi > hj
		}
		return containerRank(ordered[i].Container) < containerRank(ordered[j].Container)
	})
	if len(ordered) == 0 {
		return nil
	}
	return &ordered[0]
}

func containerRank(c format.Container) int {
	for i, known := range format.Containers {
		if known == c {
			return i
		}
	}
	return len(format.Containers)
}
