package loader

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/flextable/internal/domain"
)

// sampleNamespace scopes the deterministic ids of generated records.
var sampleNamespace = uuid.MustParse("6f1c1d6e-52a5-4c1e-9a54-2f8a3c1b7e10")

var (
	sampleVerbs  = []string{"Rotate", "Migrate", "Audit", "Rebuild", "Archive", "Benchmark", "Patch"}
	sampleNouns  = []string{"backups", "search index", "billing db", "edge cache", "audit log", "build agents", "dns zone"}
	sampleOwners = []string{"ops", "web", "data", "security", "platform"}
	sampleTags   = []string{"nightly", "manual", "q3", "infra", "customer"}
)

// SampleRecords returns n generated records created at hourly intervals
// before now. The same n and now always produce the same records.
func SampleRecords(n int, now time.Time) []domain.Record {
	statuses := []domain.Status{domain.StatusActive, domain.StatusActive, domain.StatusPaused, domain.StatusArchived}

	out := make([]domain.Record, n)
	for i := range out {
		out[i] = domain.Record{
			ID:        uuid.NewSHA1(sampleNamespace, fmt.Appendf(nil, "sample-%d", i)).String(),
			Name:      fmt.Sprintf("%s %s", sampleVerbs[i%len(sampleVerbs)], sampleNouns[(i/len(sampleVerbs))%len(sampleNouns)]),
			Owner:     sampleOwners[(i*3)%len(sampleOwners)],
			Status:    statuses[(i*5)%len(statuses)],
			Priority:  (i * 7) % 5,
			CreatedAt: now.Add(-time.Duration(i) * time.Hour).UTC().Truncate(time.Second),
			Notes:     fmt.Sprintf("Generated sample task #%d.", i+1),
			Tags:      []string{sampleTags[i%len(sampleTags)], sampleTags[(i+2)%len(sampleTags)]},
		}
	}
	return out
}
