// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package index

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/tomtom215/swipewear/internal/feed"
)

// Payload keys stored on every point.
const (
	payloadItemID     = "item_id"
	payloadSeq        = "seq"
	payloadCategories = "categories"
)

// pointNamespace derives stable point UUIDs from item ids.
var pointNamespace = uuid.MustParse("6f1c1b0e-4a53-5d2e-9a7b-2b8c4e1f0d77")

// PointID returns the Qdrant point id of an item.
func PointID(itemID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(itemID)).String()
}

// Qdrant is a feed.EmbeddingIndex backed by a Qdrant collection using
// Euclidean distance.
type Qdrant struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
}

// NewQdrant connects to Qdrant's gRPC port. The connection is lazy; the
// first call surfaces an unreachable server.
func NewQdrant(host string, port int, collection string) (*Qdrant, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant connect: %w", err)
	}
	return &Qdrant{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
	}, nil
}

// EnsureCollection creates the collection with the given vector size if it
// does not exist yet.
func (q *Qdrant) EnsureCollection(ctx context.Context, dim int) error {
	exists, err := q.collections.CollectionExists(ctx, &pb.CollectionExistsRequest{CollectionName: q.collection})
	if err != nil {
		return fmt.Errorf("qdrant collection exists: %w", err)
	}
	if exists.GetResult().GetExists() {
		return nil
	}

	_, err = q.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: &pb.VectorsConfig{Config: &pb.VectorsConfig_Params{Params: &pb.VectorParams{
			Size:     uint64(dim), //nolint:gosec // embedding dimensions are small and positive
			Distance: pb.Distance_Euclid,
		}}},
	})
	if err != nil {
		return fmt.Errorf("qdrant create collection: %w", err)
	}
	return nil
}

// Upsert writes entries as points. Entries without a vector are skipped.
func (q *Qdrant) Upsert(ctx context.Context, entries []Entry) error {
	points := make([]*pb.PointStruct, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		if len(e.Vector) == 0 {
			continue
		}
		categories := make([]*pb.Value, len(e.Categories))
		for j, c := range e.Categories {
			categories[j] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: c}}
		}
		points = append(points, &pb.PointStruct{
			Id:      &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: PointID(e.ID)}},
			Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: e.Vector}}},
			Payload: map[string]*pb.Value{
				payloadItemID:     {Kind: &pb.Value_StringValue{StringValue: e.ID}},
				payloadSeq:        {Kind: &pb.Value_IntegerValue{IntegerValue: e.Seq}},
				payloadCategories: {Kind: &pb.Value_ListValue{ListValue: &pb.ListValue{Values: categories}}},
			},
		})
	}
	if len(points) == 0 {
		return nil
	}

	wait := true
	_, err := q.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: q.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert: %w", err)
	}
	return nil
}

// Delete removes items from the collection.
func (q *Qdrant) Delete(ctx context.Context, itemIDs ...string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	wait := true
	_, err := q.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: q.collection,
		Wait:           &wait,
		Points: &pb.PointsSelector{PointsSelectorOneOf: &pb.PointsSelector_Points{
			Points: &pb.PointsIdsList{Ids: pointIDs(itemIDs)},
		}},
	})
	if err != nil {
		return fmt.Errorf("qdrant delete: %w", err)
	}
	return nil
}

// KNN implements feed.EmbeddingIndex. The seed point is used as the query
// vector; Qdrant excludes it from the results itself.
func (q *Qdrant) KNN(ctx context.Context, seed string, k int, exclude feed.ItemSet, filter feed.CategorySet) ([]string, error) {
	if k <= 0 {
		return []string{}, nil
	}

	resp, err := q.points.Recommend(ctx, &pb.RecommendPoints{
		CollectionName: q.collection,
		Positive:       []*pb.PointId{pointID(seed)},
		Filter:         buildFilter(exclude, filter),
		Limit:          uint64(k), //nolint:gosec // k is bounded by the feed limit
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return []string{}, nil
		}
		return nil, fmt.Errorf("qdrant recommend: %w", err)
	}

	type hit struct {
		id    string
		seq   int64
		score float32
	}
	hits := make([]hit, 0, len(resp.GetResult()))
	for _, pt := range resp.GetResult() {
		payload := pt.GetPayload()
		id := payload[payloadItemID].GetStringValue()
		if id == "" {
			continue
		}
		hits = append(hits, hit{id: id, seq: payload[payloadSeq].GetIntegerValue(), score: pt.GetScore()})
	}

	// Euclid scores are distances; reapply the sequence tie-break.
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score < hits[j].score
		}
		return hits[i].seq < hits[j].seq
	})

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.id
	}
	return out, nil
}

// Ping checks that Qdrant answers and the collection exists.
func (q *Qdrant) Ping(ctx context.Context) error {
	exists, err := q.collections.CollectionExists(ctx, &pb.CollectionExistsRequest{CollectionName: q.collection})
	if err != nil {
		return fmt.Errorf("qdrant collection exists: %w", err)
	}
	if !exists.GetResult().GetExists() {
		return fmt.Errorf("qdrant collection %q does not exist", q.collection)
	}
	return nil
}

// Close releases the gRPC connection.
func (q *Qdrant) Close() error {
	if q.conn == nil {
		return errors.New("qdrant: not connected")
	}
	return q.conn.Close()
}

func buildFilter(exclude feed.ItemSet, filter feed.CategorySet) *pb.Filter {
	if len(exclude) == 0 && len(filter) == 0 {
		return nil
	}
	f := &pb.Filter{}
	if len(exclude) > 0 {
		f.MustNot = []*pb.Condition{{
			ConditionOneOf: &pb.Condition_HasId{HasId: &pb.HasIdCondition{HasId: pointIDs(exclude.Slice())}},
		}}
	}
	for _, c := range filter.Slice() {
		f.Should = append(f.Should, &pb.Condition{
			ConditionOneOf: &pb.Condition_Field{Field: &pb.FieldCondition{
				Key:   payloadCategories,
				Match: &pb.Match{MatchValue: &pb.Match_Keyword{Keyword: c}},
			}},
		})
	}
	return f
}

func pointID(itemID string) *pb.PointId {
	return &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: PointID(itemID)}}
}

func pointIDs(itemIDs []string) []*pb.PointId {
	out := make([]*pb.PointId, len(itemIDs))
	for i, id := range itemIDs {
		out[i] = pointID(id)
	}
	return out
}

var _ feed.EmbeddingIndex = (*Qdrant)(nil)
