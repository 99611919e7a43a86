package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

type Genre struct {
	Name        string
	Description string
}

type Director struct {
	Name  string
	Bio   string
	Birth string
	Death string
}

// Movie is a catalog entry. Movies are provisioned out-of-band and read-only through the API.
type Movie struct {
	ID          string
	Title       string
	Description string
	Genre       Genre
	Director    Director
	ImageURL    string
	Featured    bool
}

// ValidMovieID reports whether id is a well-formed catalog identifier
// (a 24 character hexadecimal object id).
func ValidMovieID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// NewID returns a fresh object id in its hex form.
func NewID() string {
	return primitive.NewObjectID().Hex()
}
