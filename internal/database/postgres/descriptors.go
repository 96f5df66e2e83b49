package postgres

import (
	"context"
	"fmt"

	"github.com/kozaktomas/face-register/internal/database"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// DescriptorRepository stores indexed faces grouped by collection and external id.
type DescriptorRepository struct {
	pool *Pool
}

// NewDescriptorRepository creates a new PostgreSQL descriptor repository.
func NewDescriptorRepository(pool *Pool) *DescriptorRepository {
	return &DescriptorRepository{pool: pool}
}

// SaveDescriptors replaces all descriptors of an external id in one transaction,
// so re-indexing a replaced photo does not accumulate stale faces.
func (r *DescriptorRepository) SaveDescriptors(
	ctx context.Context, collectionID, externalID string, descs []database.StoredDescriptor,
) error {
	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM face_descriptors WHERE collection_id = $1 AND external_id = $2`,
		collectionID, externalID); err != nil {
		return fmt.Errorf("delete old descriptors: %w", err)
	}

	query := `
		INSERT INTO face_descriptors
			(face_id, collection_id, external_id, object_key, face_index, embedding, bbox, det_score, model)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, d := range descs {
		if _, err := tx.ExecContext(ctx, query,
			d.FaceID, collectionID, externalID, d.ObjectKey, d.FaceIndex,
			pgvector.NewVector(d.Embedding), pq.Array(d.BBox), d.DetScore, d.Model,
		); err != nil {
			return fmt.Errorf("insert descriptor %s: %w", d.FaceID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit descriptors: %w", err)
	}
	return nil
}

// GetDescriptors returns the descriptors of an external id ordered by face index.
func (r *DescriptorRepository) GetDescriptors(
	ctx context.Context, collectionID, externalID string,
) ([]database.StoredDescriptor, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT face_id, collection_id, external_id, object_key, face_index, embedding, bbox, det_score, model, created_at
		FROM face_descriptors
		WHERE collection_id = $1 AND external_id = $2
		ORDER BY face_index
	`, collectionID, externalID)
	if err != nil {
		return nil, fmt.Errorf("query descriptors: %w", err)
	}
	defer rows.Close()

	var descs []database.StoredDescriptor
	for rows.Next() {
		var d database.StoredDescriptor
		var vec pgvector.Vector
		var bbox pq.Float64Array
		if err := rows.Scan(&d.FaceID, &d.CollectionID, &d.ExternalID, &d.ObjectKey, &d.FaceIndex,
			&vec, &bbox, &d.DetScore, &d.Model, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan descriptor: %w", err)
		}
		d.Embedding = vec.Slice()
		d.BBox = bbox
		descs = append(descs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate descriptors: %w", err)
	}
	return descs, nil
}

// CountDescriptors returns the number of faces in a collection.
func (r *DescriptorRepository) CountDescriptors(ctx context.Context, collectionID string) (int, error) {
	var count int
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM face_descriptors WHERE collection_id = $1`, collectionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count descriptors: %w", err)
	}
	return count, nil
}
