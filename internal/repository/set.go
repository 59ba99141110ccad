package repository

import "github.com/alexanderramin/cadence/internal/db"

// Set bundles every repository over one handle. Services build a Set from
// the tx they receive so all reads and writes of a use case share it.
type Set struct {
	Children ChildRepo
	Topics   TopicRepo
	Blocks   TimeBlockRepo
	Sessions SessionRepo
	CatchUps CatchUpRepo
	Events   EventRepo
}

func NewSQLiteSet(d db.DBTX) Set {
	return Set{
		Children: NewSQLiteChildRepo(d),
		Topics:   NewSQLiteTopicRepo(d),
		Blocks:   NewSQLiteTimeBlockRepo(d),
		Sessions: NewSQLiteSessionRepo(d),
		CatchUps: NewSQLiteCatchUpRepo(d),
		Events:   NewSQLiteEventRepo(d),
	}
}
