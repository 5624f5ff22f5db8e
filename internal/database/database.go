package database

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/mattn/go-sqlite3"
)

// Service stores finished match results. It writes to a local sqlite file by
// default and to Postgres (via the pgx stdlib driver) when DATABASE_URL is
// set in the environment or a .env file.
type Service struct {
	db        *sql.DB
	m         *sync.Mutex
	tableName string
	postgres  bool
}

var (
	tableName  = "truco_matches"
	dbInstance *Service
)

func New() Service {
	driver, dsn := "sqlite3", "./truco.db"
	if url := os.Getenv("DATABASE_URL"); url != "" {
		driver, dsn = "pgx", url
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		panic(err)
	}

	sqlStmt := `
	create table if not exists truco_matches (
		id text not null primary key,
		created_at text,
		player text,
		opponent text,
		player_score integer,
		opponent_score integer,
		winner text,
		hands_played integer
	);
	`
	_, err = db.Exec(sqlStmt)
	if err != nil {
		panic(err)
	}

	dbInstance = &Service{
		db:        db,
		tableName: tableName,
		m:         &sync.Mutex{},
		postgres:  driver == "pgx",
	}

	return *dbInstance
}

func (s *Service) Close() error {
	return s.db.Close()
}

func (s *Service) TableName() string {
	return s.tableName
}

// rebind converts ?-style placeholders to the $n style Postgres expects.
func (s *Service) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString(fmt.Sprintf("$%d", n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func scanResult(rows interface{ Scan(...any) error }, result *MatchResult) error {
	return rows.Scan(
		&result.ID,
		&result.CreatedAt,
		&result.Player,
		&result.Opponent,
		&result.PlayerScore,
		&result.OpponentScore,
		&result.Winner,
		&result.HandsPlayed)
}

func (s *Service) GetAll() ([]MatchResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	rows, err := s.db.Query("SELECT * FROM " + s.tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []MatchResult
	for rows.Next() {
		var result MatchResult
		if err := scanResult(rows, &result); err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

func (s *Service) GetByID(id string) (MatchResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	var result MatchResult
	row := s.db.QueryRow(s.rebind("SELECT * FROM "+s.tableName+" WHERE id = ?"), id)
	if err := scanResult(row, &result); err != nil {
		return MatchResult{}, err
	}
	return result, nil
}

func (s *Service) Insert(result MatchResult) error {
	s.m.Lock()
	defer s.m.Unlock()
	_, err := s.db.Exec(s.rebind("INSERT INTO "+s.tableName+
		" (id, created_at, player, opponent, player_score, opponent_score, winner, hands_played) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"),
		result.ID,
		result.CreatedAt,
		result.Player,
		result.Opponent,
		result.PlayerScore,
		result.OpponentScore,
		result.Winner,
		result.HandsPlayed)

	return err
}

func (s *Service) GetByPlayer(playerName string) ([]MatchResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	rows, err := s.db.Query(s.rebind("SELECT * FROM "+s.tableName+" WHERE player = ?"), playerName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []MatchResult
	for rows.Next() {
		var result MatchResult
		if err := scanResult(rows, &result); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, sql.ErrNoRows // No results found
	}

	return results, nil
}
