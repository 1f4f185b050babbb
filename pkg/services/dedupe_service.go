package services

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dansfisica85/dalmaso/pkg/models"
	"github.com/dansfisica85/dalmaso/pkg/repositories"
)

// DedupeService finds and merges duplicate students across the persisted
// roster. Detection is read-only; Merge is irreversible and takes the
// duplicates' attendance history with them.
type DedupeService interface {
	FindDuplicates(ctx context.Context) ([]models.DuplicateGroup, error)
	MergeDuplicates(ctx context.Context) (*models.MergeReport, error)
}

type dedupeService struct {
	students repositories.StudentRepository
	cohorts  repositories.CohortRepository
	logger   *zap.Logger
}

// NewDedupeService creates a new DedupeService.
func NewDedupeService(students repositories.StudentRepository, cohorts repositories.CohortRepository, logger *zap.Logger) DedupeService {
	return &dedupeService{
		students: students,
		cohorts:  cohorts,
		logger:   logger.Named("dedupe"),
	}
}

var _ DedupeService = (*dedupeService)(nil)

type dupKey struct {
	cohortID int64
	value    string
}

// FindDuplicates groups active students by (class, normalized name) and,
// independently, by (class, registration number). An RA group whose members
// all appear in some name group is omitted: it is the same finding twice.
func (s *dedupeService) FindDuplicates(ctx context.Context) ([]models.DuplicateGroup, error) {
	refs, err := s.students.ListActiveRefs(ctx)
	if err != nil {
		return nil, err
	}
	cohortNames, err := s.cohortNames(ctx)
	if err != nil {
		return nil, err
	}

	nameGroups := groupRefs(refs, func(r repositories.StudentRef) string {
		return strings.ToUpper(strings.TrimSpace(r.Name))
	})
	raGroups := groupRefs(refs, func(r repositories.StudentRef) string {
		return strings.TrimSpace(r.RA)
	})

	covered := make(map[int64]struct{})
	var groups []models.DuplicateGroup
	for _, key := range sortedKeys(nameGroups) {
		members := nameGroups[key]
		if len(members) < 2 {
			continue
		}
		for _, m := range members {
			covered[m.ID] = struct{}{}
		}
		groups = append(groups, buildGroup(key, members, cohortNames, false))
	}
	for _, key := range sortedKeys(raGroups) {
		members := raGroups[key]
		if len(members) < 2 {
			continue
		}
		allCovered := true
		for _, m := range members {
			if _, ok := covered[m.ID]; !ok {
				allCovered = false
				break
			}
		}
		if allCovered {
			continue
		}
		groups = append(groups, buildGroup(key, members, cohortNames, true))
	}
	return groups, nil
}

// MergeDuplicates collapses every name-based duplicate group onto one
// survivor and hard-deletes the rest, attendance included. No field values
// are merged: the survivor's record is authoritative as-is.
func (s *dedupeService) MergeDuplicates(ctx context.Context) (*models.MergeReport, error) {
	refs, err := s.students.ListActiveRefs(ctx)
	if err != nil {
		return nil, err
	}

	nameGroups := groupRefs(refs, func(r repositories.StudentRef) string {
		return strings.ToUpper(strings.TrimSpace(r.Name))
	})

	report := &models.MergeReport{RunID: uuid.NewString()}
	var toDelete []int64
	for _, key := range sortedKeys(nameGroups) {
		members := nameGroups[key]
		if len(members) < 2 {
			continue
		}
		survivor := pickSurvivor(members)
		for _, m := range members {
			if m.ID != survivor.ID {
				toDelete = append(toDelete, m.ID)
			}
		}
		report.GroupsMerged++
		report.KeptIDs = append(report.KeptIDs, survivor.ID)
	}

	if err := s.students.DeleteWithAttendance(ctx, toDelete); err != nil {
		return nil, err
	}
	report.StudentsRemoved = len(toDelete)

	s.logger.Info("Duplicate merge finished",
		zap.String("run_id", report.RunID),
		zap.Int("groups", report.GroupsMerged),
		zap.Int("removed", report.StudentsRemoved))
	return report, nil
}

// pickSurvivor keeps the member with the largest id. Ids come from a
// sequence that is never reused, so the largest id is the most recently
// created record.
func pickSurvivor(members []repositories.StudentRef) repositories.StudentRef {
	survivor := members[0]
	for _, m := range members[1:] {
		if m.ID > survivor.ID {
			survivor = m
		}
	}
	return survivor
}

func groupRefs(refs []repositories.StudentRef, keyFn func(repositories.StudentRef) string) map[dupKey][]repositories.StudentRef {
	groups := make(map[dupKey][]repositories.StudentRef)
	for _, ref := range refs {
		value := keyFn(ref)
		if value == "" {
			continue
		}
		key := dupKey{cohortID: ref.CohortID, value: value}
		groups[key] = append(groups[key], ref)
	}
	return groups
}

func sortedKeys(groups map[dupKey][]repositories.StudentRef) []dupKey {
	keys := make([]dupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].cohortID != keys[j].cohortID {
			return keys[i].cohortID < keys[j].cohortID
		}
		return keys[i].value < keys[j].value
	})
	return keys
}

func buildGroup(key dupKey, members []repositories.StudentRef, cohortNames map[int64]string, byRA bool) models.DuplicateGroup {
	group := models.DuplicateGroup{
		CohortID:   key.cohortID,
		CohortName: cohortNames[key.cohortID],
		Key:        key.value,
		ByRA:       byRA,
	}
	for _, m := range members {
		group.Students = append(group.Students, models.Student{
			ID:        m.ID,
			Name:      m.Name,
			RA:        m.RA,
			CreatedAt: m.CreatedAt,
		})
	}
	return group
}

func (s *dedupeService) cohortNames(ctx context.Context) (map[int64]string, error) {
	cohorts, err := s.cohorts.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(cohorts))
	for _, c := range cohorts {
		names[c.ID] = c.Name
	}
	return names, nil
}
