package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/joacominatel/dcon/internal/database"
	"github.com/joacominatel/dcon/internal/output"
)

// Service runs one command against a client and renders its result.
type Service struct {
	client  database.Client
	printer *output.Printer
	prompt  Prompter
	logger  *slog.Logger
}

// NewService creates a new command service.
func NewService(client database.Client, printer *output.Printer, prompt Prompter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, printer: printer, prompt: prompt, logger: logger}
}

// Client returns the client commands run against.
func (s *Service) Client() database.Client {
	return s.client
}

// Printer returns the printer commands render to.
func (s *Service) Printer() *output.Printer {
	return s.printer
}

// confirm gates a destructive command. With confirmed set no question is
// asked.
func (s *Service) confirm(confirmed bool, question string) (bool, error) {
	if confirmed {
		return true, nil
	}
	ok, err := s.prompt.Confirm(question)
	if err != nil {
		return false, err
	}
	if !ok {
		s.printer.Warn("Operation cancelled.")
	}
	return ok, nil
}

// Connect prints facts about the session.
func (s *Service) Connect(ctx context.Context) error {
	info, err := s.client.ConnectionInfo(ctx)
	if err != nil {
		return err
	}
	s.printer.Title("Connection Information:")
	return s.printer.Records(output.ConnectionInfos(info))
}

// ListDatabases prints every database.
func (s *Service) ListDatabases(ctx context.Context) error {
	dbs, err := s.client.ListDatabases(ctx)
	if err != nil {
		return err
	}
	s.printer.Title("Available Databases:")
	return s.printer.Records(output.Databases(dbs))
}

// CreateDatabase creates a database after confirmation.
func (s *Service) CreateDatabase(ctx context.Context, name, owner, encoding string, confirmed bool) error {
	ok, err := s.confirm(confirmed, fmt.Sprintf("Create database '%s'?", name))
	if err != nil || !ok {
		return err
	}
	if err := s.client.CreateDatabase(ctx, name, owner, encoding); err != nil {
		return err
	}
	s.printer.Success("Database '%s' created successfully!", name)
	return nil
}

// DropDatabase drops a database after confirmation.
func (s *Service) DropDatabase(ctx context.Context, name string, confirmed bool) error {
	ok, err := s.confirm(confirmed, fmt.Sprintf("Are you sure you want to drop database '%s'?", name))
	if err != nil || !ok {
		return err
	}
	if err := s.client.DropDatabase(ctx, name); err != nil {
		return err
	}
	s.printer.Success("Database '%s' dropped successfully!", name)
	return nil
}

// DatabaseInfo prints one database, the connected one when name is empty.
func (s *Service) DatabaseInfo(ctx context.Context, name string) error {
	info, err := s.client.DatabaseInfo(ctx, name)
	if err != nil {
		return err
	}
	s.printer.Title("Database Information:")
	return s.printer.Records(output.Database(*info))
}

// ListTables prints tables and views.
func (s *Service) ListTables(ctx context.Context, includeSystem bool) error {
	tables, err := s.client.ListTables(ctx, includeSystem)
	if err != nil {
		return err
	}
	s.printer.Title("Available Tables:")
	return s.printer.Records(output.Tables(tables))
}

// DescribeTable prints the columns of a table.
func (s *Service) DescribeTable(ctx context.Context, table, schema string) error {
	cols, err := s.client.DescribeTable(ctx, table, schema)
	if err != nil {
		return err
	}
	s.printer.Title("Table Structure for '%s':", table)
	return s.printer.Records(output.Columns(cols))
}

// CreateTable runs a CREATE TABLE statement after confirmation.
func (s *Service) CreateTable(ctx context.Context, sql string, confirmed bool) error {
	ok, err := s.confirm(confirmed, "Execute CREATE TABLE statement?")
	if err != nil || !ok {
		return err
	}
	res, err := s.client.ExecuteQuery(ctx, sql)
	if err != nil {
		return err
	}
	if res.IsEmpty() {
		s.printer.Success("Table created successfully!")
		return nil
	}
	return s.printer.Rows(res, false)
}

// DropTable drops a table after confirmation.
func (s *Service) DropTable(ctx context.Context, table string, confirmed bool) error {
	ok, err := s.confirm(confirmed, fmt.Sprintf("Are you sure you want to drop table '%s'?", table))
	if err != nil || !ok {
		return err
	}
	if err := s.client.DropTable(ctx, table); err != nil {
		return err
	}
	s.printer.Success("Table '%s' dropped successfully!", table)
	return nil
}

// Insert adds one row from a JSON object.
func (s *Service) Insert(ctx context.Context, table, data string) error {
	raw, err := parseData(data)
	if err != nil {
		return err
	}
	n, err := s.client.Insert(ctx, table, raw)
	if err != nil {
		return err
	}
	s.printer.Success("Inserted %d row(s) into table '%s'", n, table)
	return nil
}

// Read selects rows. Table output is aligned text, CSV quotes every value.
func (s *Service) Read(ctx context.Context, opts database.SelectOptions) error {
	s.printer.Title("Reading from table '%s'", opts.Table)
	res, err := s.client.Select(ctx, opts)
	if err != nil {
		return err
	}
	if res.IsEmpty() {
		s.printer.Warn("No data found.")
		return nil
	}
	return s.printer.Rows(res, true)
}

// Update sets columns on matching rows after confirmation.
func (s *Service) Update(ctx context.Context, table, data, filter string, confirmed bool) error {
	raw, err := parseData(data)
	if err != nil {
		return err
	}
	ok, err := s.confirm(confirmed, fmt.Sprintf("Update table '%s' WHERE %s?", table, filter))
	if err != nil || !ok {
		return err
	}
	n, err := s.client.Update(ctx, table, raw, filter)
	if err != nil {
		return err
	}
	s.printer.Success("Updated %d row(s) in table '%s'", n, table)
	return nil
}

// Delete removes matching rows after confirmation.
func (s *Service) Delete(ctx context.Context, table, filter string, confirmed bool) error {
	ok, err := s.confirm(confirmed, fmt.Sprintf("Delete from table '%s' WHERE %s?", table, filter))
	if err != nil || !ok {
		return err
	}
	n, err := s.client.Delete(ctx, table, filter)
	if err != nil {
		return err
	}
	s.printer.Success("Deleted %d row(s) from table '%s'", n, table)
	return nil
}

// Query runs ad-hoc SQL once and renders the result in the chosen format.
func (s *Service) Query(ctx context.Context, sql string) error {
	res, err := s.client.ExecuteQuery(ctx, sql)
	if err != nil {
		return err
	}
	if res.IsEmpty() {
		s.printer.Success("Query executed successfully. No rows returned.")
		return nil
	}
	return s.printer.Rows(res, false)
}

func parseData(data string) ([]byte, error) {
	var v any
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, database.NewError(database.KindSerialization, "Invalid JSON data", err)
	}
	return []byte(data), nil
}
