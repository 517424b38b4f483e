package mandelbrot

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/bodgit/mandelbrot/frame"
	"github.com/bodgit/mandelbrot/vector"
	_ "github.com/mattn/go-sqlite3"
)

// RunDB records the outcome of every run so later runs of the same test
// vector can be checked against it.
type RunDB struct {
	db *sql.DB
}

func NewRunDB(file string) (*RunDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS vector (id INTEGER PRIMARY KEY NOT NULL, max_iterations INTEGER NOT NULL, c_real TEXT NOT NULL, c_imag TEXT NOT NULL, step_real TEXT NOT NULL, step_imag TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, UNIQUE(max_iterations, c_real, c_imag, step_real, step_imag, width, height))"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS run (id INTEGER PRIMARY KEY NOT NULL, vector_id INTEGER NOT NULL, config TEXT NOT NULL, signature TEXT NOT NULL, escaped INTEGER NOT NULL, saturated INTEGER NOT NULL, frame BLOB NOT NULL, created DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP, FOREIGN KEY(vector_id) REFERENCES vector(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &RunDB{
		db: db,
	}, nil
}

func (db *RunDB) Close() error {
	return db.db.Close()
}

// Run is a recorded run.
type Run struct {
	ID        int64
	Vector    vector.Vector
	Config    string
	Signature uint32
	Escaped   int
	Saturated int
	Created   time.Time
}

func hex(v uint64) string {
	return fmt.Sprintf("%04x", v)
}

func unhex(s string) (uint64, error) {
	return strconv.ParseUint(s, 16, 64)
}

// Vectors without a screen size are stored with the size they ran at so
// both spellings of the same frame match.
func (db *RunDB) addVector(v vector.Vector, width, height int) (int64, error) {
	args := []interface{}{v.MaxIterations, hex(v.CReal), hex(v.CImag), hex(v.StepReal), hex(v.StepImag), width, height}

	var id int64
	switch err := db.db.QueryRow("SELECT id FROM vector WHERE max_iterations = ? AND c_real = ? AND c_imag = ? AND step_real = ? AND step_imag = ? AND width = ? AND height = ?", args...).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO vector (max_iterations, c_real, c_imag, step_real, step_imag, width, height) VALUES (?, ?, ?, ?, ?, ?, ?)", args...)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Record stores a run of frame f under the given configuration.
func (db *RunDB) Record(config string, f *Frame) (int64, error) {
	id, err := db.addVector(f.Vector, f.Buffer.Width(), f.Buffer.Height())
	if err != nil {
		return 0, err
	}

	b, err := f.Buffer.MarshalBinary()
	if err != nil {
		return 0, err
	}

	result, err := db.db.Exec("INSERT INTO run (vector_id, config, signature, escaped, saturated, frame) VALUES (?, ?, ?, ?, ?, ?)", id, config, fmt.Sprintf("%08X", f.Signature), f.Escaped, f.Saturated, b)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// FindSignature returns the signature of the most recent run of the frame
// with the same vector, screen size and configuration.
func (db *RunDB) FindSignature(config string, f *Frame) (uint32, bool, error) {
	v := f.Vector

	var signature string
	switch err := db.db.QueryRow("SELECT r.signature FROM run AS r JOIN vector AS v ON r.vector_id = v.id WHERE r.config = ? AND v.max_iterations = ? AND v.c_real = ? AND v.c_imag = ? AND v.step_real = ? AND v.step_imag = ? AND v.width = ? AND v.height = ? ORDER BY r.id DESC LIMIT 1", config, v.MaxIterations, hex(v.CReal), hex(v.CImag), hex(v.StepReal), hex(v.StepImag), f.Buffer.Width(), f.Buffer.Height()).Scan(&signature); err {
	case sql.ErrNoRows:
		return 0, false, nil
	case nil:
		s, err := strconv.ParseUint(signature, 16, 32)
		if err != nil {
			return 0, false, err
		}
		return uint32(s), true, nil
	default:
		return 0, false, err
	}
}

// Runs returns every recorded run, oldest first.
func (db *RunDB) Runs() ([]Run, error) {
	rows, err := db.db.Query("SELECT r.id, v.max_iterations, v.c_real, v.c_imag, v.step_real, v.step_imag, v.width, v.height, r.config, r.signature, r.escaped, r.saturated, r.created FROM run AS r JOIN vector AS v ON r.vector_id = v.id ORDER BY r.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var cReal, cImag, stepReal, stepImag, signature string
		if err := rows.Scan(&r.ID, &r.Vector.MaxIterations, &cReal, &cImag, &stepReal, &stepImag, &r.Vector.Width, &r.Vector.Height, &r.Config, &signature, &r.Escaped, &r.Saturated, &r.Created); err != nil {
			return nil, err
		}
		r.Vector.Sized = true

		for _, f := range []struct {
			s string
			v *uint64
		}{{cReal, &r.Vector.CReal}, {cImag, &r.Vector.CImag}, {stepReal, &r.Vector.StepReal}, {stepImag, &r.Vector.StepImag}} {
			if *f.v, err = unhex(f.s); err != nil {
				return nil, err
			}
		}

		s, err := strconv.ParseUint(signature, 16, 32)
		if err != nil {
			return nil, err
		}
		r.Signature = uint32(s)

		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// FindFrame returns the frame buffer stored with a run, or nil if there is
// no such run.
func (db *RunDB) FindFrame(id int64) (*frame.Buffer, error) {
	var b []byte
	switch err := db.db.QueryRow("SELECT frame FROM run WHERE id = ?", id).Scan(&b); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		fb := new(frame.Buffer)
		if err := fb.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		return fb, nil
	default:
		return nil, err
	}
}
