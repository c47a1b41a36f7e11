package database

// ScanRows reads all rows from the result set and returns them as a slice
// of maps, where each key is the column name and each value is the Go-native
// representation of the DB value. This is the transient entity form the
// admin layer serializes to JSON.
//
// The returned slice is always non-nil (empty slice on zero rows).
// ScanRows always closes the Rows; callers do not need to call Close().
func ScanRows(rows Rows) ([]map[string]any, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errQuery("failed to read column names", err)
	}

	result := make([]map[string]any, 0)

	for rows.Next() {
		// Allocate scan targets as *any so the driver can write any type.
		dest := make([]any, len(columns))
		destPtrs := make([]any, len(columns))
		for i := range dest {
			destPtrs[i] = &dest[i]
		}

		if err := rows.Scan(destPtrs...); err != nil {
			return nil, errQuery("failed to scan row", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(dest[i])
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errQuery("error during row iteration", err)
	}

	return result, nil
}

// ScanOneRow reads the first row of the result set as a map.
// Returns a not-found error when the result set is empty.
// ScanOneRow always closes the Rows.
func ScanOneRow(rows Rows) (map[string]any, error) {
	all, err := ScanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, errNotFound("no rows in result set")
	}
	return all[0], nil
}

// normalizeValue converts driver byte slices into strings so entities are
// JSON-friendly. The MySQL driver returns []byte for text columns.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
