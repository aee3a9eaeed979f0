package main

import (
	"database/sql"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

// CacheKey identifies one calculation: chart content hash plus every setting
// that changes the outcome.
type CacheKey struct {
	Sum           string
	Mods          uint32
	ClockRate     float64
	PassedObjects int // -1 for the full chart
	Mania         bool
}

// CachedAttributes is the persisted outcome of a calculation.
type CachedAttributes struct {
	Mode      string
	Stars     float64
	PP        float64
	HitWindow float64
	MaxCombo  int
}

// Store caches calculated attributes in a local SQLite database so repeated
// runs over a song library only pay for new or changed charts.
type Store struct {
	db *sql.DB
	mu chan struct{} // serializes writers; the driver handles readers
}

func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	initStatement := `
	create table if not exists attributes
	  (
		  sum text not null,
		  mods integer not null,
		  rate real not null,
		  passed_objects integer not null,
		  mania integer not null,
		  mode text,
		  stars real,
		  pp real,
		  hit_window real,
		  max_combo integer,
		  primary key (sum, mods, rate, passed_objects, mania)
	  );
	`
	if _, err = db.Exec(initStatement); err != nil {
		db.Close()
		return nil, err
	}

	mu := make(chan struct{}, 1)
	mu <- struct{}{}

	return &Store{db: db, mu: mu}, nil
}

func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *Store) Load(key CacheKey) (CachedAttributes, bool) {
	row := s.db.QueryRow(
		`select mode, stars, pp, hit_window, max_combo from attributes
		 where sum = ? and mods = ? and rate = ? and passed_objects = ? and mania = ?`,
		key.Sum, key.Mods, key.ClockRate, key.PassedObjects, key.Mania,
	)

	var cached CachedAttributes
	err := row.Scan(&cached.Mode, &cached.Stars, &cached.PP, &cached.HitWindow, &cached.MaxCombo)
	if err == sql.ErrNoRows {
		return CachedAttributes{}, false
	}
	if err != nil {
		log.Println("unable to load cached attributes:", err)
		return CachedAttributes{}, false
	}

	return cached, true
}

func (s *Store) Save(key CacheKey, attrs CachedAttributes) {
	<-s.mu
	defer func() { s.mu <- struct{}{} }()

	_, err := s.db.Exec(
		`insert or replace into attributes
		 (sum, mods, rate, passed_objects, mania, mode, stars, pp, hit_window, max_combo)
		 values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		key.Sum, key.Mods, key.ClockRate, key.PassedObjects, key.Mania,
		attrs.Mode, attrs.Stars, attrs.PP, attrs.HitWindow, attrs.MaxCombo,
	)
	if err != nil {
		log.Println("unable to save attributes:", err)
	}
}
