package repositories

import (
	"context"
	"fmt"
	"sort"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/courseapi/internal/pkg/logger"
)

// association describes one side of the course_students join table
type association struct {
	table        string // join table
	ownerColumn  string // column referencing the owning row
	memberColumn string // column referencing the associated row
	memberTable  string // table of the associated rows
}

var (
	courseStudents = association{
		table:        "course_students",
		ownerColumn:  "course_id",
		memberColumn: "student_id",
		memberTable:  "students",
	}
	studentCourses = association{
		table:        "course_students",
		ownerColumn:  "student_id",
		memberColumn: "course_id",
		memberTable:  "courses",
	}
)

// member is an associated row reduced to id and name
type member struct {
	ID   int64
	Name string
}

// maxIDsPerStatement bounds the ids bound into one statement, well below the sqlite
// and postgres parameter limits
const maxIDsPerStatement = 500

// resolve returns the ids that exist in the member table, deduplicated and sorted.
// Unknown ids are dropped.
func (a association) resolve(ctx context.Context, q querier, sb squirrel.StatementBuilderType, ids []int64) ([]int64, error) {
	existing := []int64{}
	for _, chunk := range chunkIDs(uniqueIDs(ids), maxIDsPerStatement) {
		found, err := a.resolveChunk(ctx, q, sb, chunk)
		if err != nil {
			return nil, err
		}
		existing = append(existing, found...)
	}
	return existing, nil
}

func (a association) resolveChunk(ctx context.Context, q querier, sb squirrel.StatementBuilderType, ids []int64) ([]int64, error) {
	query, args, err := sb.Select("id").
		From(a.memberTable).
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", a.memberTable).Msg("Error building resolve ids SQL")
		return nil, fmt.Errorf("failed to build resolve ids query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", a.memberTable).Msg("Error executing resolve ids query")
		return nil, fmt.Errorf("error resolving %s ids: %w", a.memberTable, err)
	}
	defer rows.Close()

	var existing []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning %s id: %w", a.memberTable, err)
		}
		existing = append(existing, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s ids: %w", a.memberTable, err)
	}

	return existing, nil
}

// replace swaps the whole association set of an owner for the given member ids.
// Callers pass ids already returned by resolve.
func (a association) replace(ctx context.Context, q querier, sb squirrel.StatementBuilderType, ownerID int64, memberIDs []int64) error {
	if err := a.clear(ctx, q, sb, ownerID); err != nil {
		return err
	}

	for _, chunk := range chunkIDs(memberIDs, maxIDsPerStatement) {
		insert := sb.Insert(a.table).Columns(a.ownerColumn, a.memberColumn)
		for _, memberID := range chunk {
			insert = insert.Values(ownerID, memberID)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			logger.Error().Err(err).Str("table", a.table).Msg("Error building insert association SQL")
			return fmt.Errorf("failed to build insert association query: %w", err)
		}

		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			logger.Error().Err(err).Str("table", a.table).Int64("ownerID", ownerID).Msg("Error inserting associations")
			return fmt.Errorf("error inserting associations: %w", err)
		}
	}

	return nil
}

// clear removes every association row of an owner
func (a association) clear(ctx context.Context, q querier, sb squirrel.StatementBuilderType, ownerID int64) error {
	query, args, err := sb.Delete(a.table).
		Where(squirrel.Eq{a.ownerColumn: ownerID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", a.table).Msg("Error building clear association SQL")
		return fmt.Errorf("failed to build clear association query: %w", err)
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		logger.Error().Err(err).Str("table", a.table).Int64("ownerID", ownerID).Msg("Error clearing associations")
		return fmt.Errorf("error clearing associations: %w", err)
	}

	return nil
}

// load returns the members of each owner ordered by member id. A nil ownerIDs loads
// every owner.
func (a association) load(ctx context.Context, q querier, sb squirrel.StatementBuilderType, ownerIDs []int64) (map[int64][]member, error) {
	builder := sb.Select("j."+a.ownerColumn, "m.id", "m.name").
		From(a.table + " j").
		Join(a.memberTable + " m ON m.id = j." + a.memberColumn).
		OrderBy("m.id ASC")
	if ownerIDs != nil {
		if len(ownerIDs) == 0 {
			return map[int64][]member{}, nil
		}
		builder = builder.Where(squirrel.Eq{"j." + a.ownerColumn: ownerIDs})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", a.table).Msg("Error building load association SQL")
		return nil, fmt.Errorf("failed to build load association query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", a.table).Msg("Error executing load association query")
		return nil, fmt.Errorf("error loading associations: %w", err)
	}
	defer rows.Close()

	members := make(map[int64][]member)
	for rows.Next() {
		var ownerID int64
		var m member
		if err := rows.Scan(&ownerID, &m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("error scanning association row: %w", err)
		}
		members[ownerID] = append(members[ownerID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating association rows: %w", err)
	}

	return members, nil
}

// uniqueIDs collapses duplicates and sorts the result
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })
	return unique
}

// chunkIDs splits ids into consecutive slices of at most size elements
func chunkIDs(ids []int64, size int) [][]int64 {
	var chunks [][]int64
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}
