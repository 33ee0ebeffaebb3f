package database

import sq "github.com/Masterminds/squirrel"

// Builder renders squirrel statements with $n placeholders for pgx.
var Builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
