package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wperaltaarriaga/songs-api/internal/core/domain"
)

const songsCollection = "songs"

// SongRepository is the MongoDB implementation of ports.SongRepository.
type SongRepository struct {
	coll *mongo.Collection
}

func NewSongRepository(db *mongo.Database) *SongRepository {
	return &SongRepository{coll: db.Collection(songsCollection)}
}

type songDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Author      string             `bson:"author"`
	ReleaseYear int                `bson:"release_year"`
	Genre       string             `bson:"genre,omitempty"`
	DurationSec int                `bson:"duration_sec,omitempty"`
	CreatedBy   string             `bson:"created_by"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func toSongDoc(s *domain.Song) songDoc {
	return songDoc{
		Title:       s.Title,
		Author:      s.Author,
		ReleaseYear: s.ReleaseYear,
		Genre:       s.Genre,
		DurationSec: s.DurationSec,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (d songDoc) toDomain() *domain.Song {
	return &domain.Song{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Author:      d.Author,
		ReleaseYear: d.ReleaseYear,
		Genre:       d.Genre,
		DurationSec: d.DurationSec,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (r *SongRepository) FindAll(ctx context.Context) ([]*domain.Song, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find songs: %w", err)
	}
	defer cursor.Close(ctx)

	songs := make([]*domain.Song, 0)
	for cursor.Next(ctx) {
		var doc songDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode song: %w", err)
		}
		songs = append(songs, doc.toDomain())
	}
	return songs, cursor.Err()
}

func (r *SongRepository) FindByID(ctx context.Context, id string) (*domain.Song, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSongNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc songDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSongNotFound
		}
		return nil, fmt.Errorf("find song: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *SongRepository) Insert(ctx context.Context, song *domain.Song) (*domain.Song, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, toSongDoc(song))
	if err != nil {
		return nil, fmt.Errorf("insert song: %w", err)
	}

	created := *song
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *SongRepository) Update(ctx context.Context, song *domain.Song) (*domain.Song, error) {
	oid, err := primitive.ObjectIDFromHex(song.ID)
	if err != nil {
		return nil, domain.ErrSongNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, toSongDoc(song))
	if err != nil {
		return nil, fmt.Errorf("update song: %w", err)
	}
	if res.MatchedCount == 0 {
		// Lost the race with a concurrent delete.
		return nil, domain.ErrSongNotFound
	}
	return song, nil
}

func (r *SongRepository) Delete(ctx context.Context, id string) (*domain.Song, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSongNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc songDoc
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSongNotFound
		}
		return nil, fmt.Errorf("delete song: %w", err)
	}
	return doc.toDomain(), nil
}

// CountByAuthor groups songs per author with a pipeline, returning counts
// and titles sorted by descending count.
func (r *SongRepository) CountByAuthor(ctx context.Context) ([]*domain.AuthorReport, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$author"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "titles", Value: bson.D{{Key: "$push", Value: "$title"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate songs by author: %w", err)
	}
	defer cursor.Close(ctx)

	reports := make([]*domain.AuthorReport, 0)
	for cursor.Next(ctx) {
		var row struct {
			Author string   `bson:"_id"`
			Count  int      `bson:"count"`
			Titles []string `bson:"titles"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode author report: %w", err)
		}
		reports = append(reports, &domain.AuthorReport{Author: row.Author, Count: row.Count, Titles: row.Titles})
	}
	return reports, cursor.Err()
}

// EnsureIndexes creates the created_by index used by ownership lookups.
func (r *SongRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
	})
	return err
}
