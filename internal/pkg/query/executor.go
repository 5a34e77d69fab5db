package query

// ExecuteAll materializa todas as linhas da consulta, já convertidas para o
// tipo de domínio. Usado nos caminhos sem paginação, como exportação.
func ExecuteAll[DB any, Domain any](
	q *Query[DB],
	converter func(*DB) (*Domain, error),
) ([]*Domain, error) {
	rows, err := q.Find()
	if err != nil {
		return nil, err
	}

	items := make([]*Domain, 0, len(rows))
	for i := range rows {
		item, err := converter(&rows[i])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}
