// Package showroom embeds the tiles catalog search engine in a Go program.
//
// The client wires the same stores and use cases as the HTTP server, so
// results are identical to GET /api/search.
//
//	client, _ := showroom.New(ctx, showroom.WithMemory(), showroom.WithSeed(products))
//	defer client.Close()
//
//	res, _ := client.Search(ctx, showroom.SearchParams{
//	    Category: "Ceramic",
//	    SortBy:   "price_asc",
//	    PageSize: 5,
//	})
//	fmt.Println(res.Pagination.TotalProducts, res.Filters.PriceRange)
//
// Redis 8 and Postgres back the catalog via WithRedis and WithPostgres.
package showroom
