package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/akuan1997/concertweb/api/internal/config"
	mongodoc "github.com/akuan1997/concertweb/api/internal/infrastructure/mongo"
	"github.com/akuan1997/concertweb/api/internal/public/domain"
)

type seedOptions struct {
	envFile         string
	concertCount    int
	dropCollection  bool
	unparseableRate float64
	randomSeed      int64
}

var cities = []string{"台北", "新北", "桃園", "台中", "台南", "高雄"}

var venues = map[string][]string{
	"台北": {"Zepp New Taipei", "台北小巨蛋", "Legacy Taipei", "國家音樂廳"},
	"新北": {"新莊體育館", "林口體育館"},
	"桃園": {"桃園國際棒球場", "中原大學中正樓"},
	"台中": {"台中國家歌劇院", "Legacy Taichung"},
	"台南": {"台南文化中心演藝廳", "台南市立體育場"},
	"高雄": {"高雄巨蛋", "高雄流行音樂中心", "衛武營國家藝術文化中心"},
}

var artists = []string{
	"YOASOBI", "五月天", "告五人", "草東沒有派對", "Radwimps", "落日飛車",
	"持修", "魏如萱", "ONE OK ROCK", "椅子樂團", "宇宙人", "Ed Sheeran",
}

var tours = []string{"世界巡迴演唱會", "亞洲巡迴", "LIVE TOUR", "演唱會", "專場", "音樂節"}

var priceTiers = [][]float64{
	{4800, 3800, 2800, 1800, 800},
	{3200, 2600, 1600},
	{1200},
	{0},
	{-1},
	{2000, -1},
}

func main() {
	opts := parseFlags()

	if err := config.LoadDotEnv(opts.envFile); err != nil {
		log.Fatalf("load env file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("load timezone: %v", err)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("connect mongo: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(cfg.MongoDatabase)
	col := db.Collection(cfg.ConcertCollection)

	if opts.dropCollection {
		// Drop also fails on a missing collection, so only warn.
		if err := col.Drop(ctx); err != nil {
			log.Printf("WARN: drop collection %s: %v", cfg.ConcertCollection, err)
		} else {
			log.Printf("dropped collection %s", cfg.ConcertCollection)
		}
	}

	if err := mongodoc.EnsureIndexes(ctx, db, cfg.ConcertCollection); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))
	docs := generateConcerts(rng, opts.concertCount, opts.unparseableRate, time.Now().In(loc), loc)
	if len(docs) == 0 {
		log.Fatal("no concert documents generated")
	}
	if err := insertMany(ctx, col, toAnySlice(docs)); err != nil {
		log.Fatalf("insert concerts: %v", err)
	}

	indexed := 0
	for _, d := range docs {
		if len(d.PerformanceTimes) > 0 {
			indexed++
		}
	}
	log.Printf("seed done: concerts=%d with_performance_times=%d seed=%d", len(docs), indexed, opts.randomSeed)
	log.Printf("mongo: %s / %s.%s", cfg.MongoURI, cfg.MongoDatabase, cfg.ConcertCollection)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envFile, "env", ".env", "dotenv file to load before reading CONCERT_* variables")
	flag.IntVar(&opts.concertCount, "count", 50, "number of concerts to generate")
	flag.BoolVar(&opts.dropCollection, "drop", true, "drop the concert collection before inserting")
	flag.Float64Var(&opts.unparseableRate, "unparseable", 0.1, "share of concerts given free-text dates (0..1)")
	defaultSeed := time.Now().UnixNano()
	flag.Int64Var(&opts.randomSeed, "seed", defaultSeed, "random seed, for reproducible data")
	flag.Parse()

	if opts.concertCount <= 0 {
		log.Fatal("count must be at least 1")
	}
	if opts.unparseableRate < 0 {
		opts.unparseableRate = 0
	}
	if opts.unparseableRate > 1 {
		opts.unparseableRate = 1
	}
	return opts
}

func generateConcerts(rng *rand.Rand, count int, unparseableRate float64, now time.Time, loc *time.Location) []mongodoc.ConcertDocument {
	docs := make([]mongodoc.ConcertDocument, 0, count)
	for i := 0; i < count; i++ {
		city := cities[rng.Intn(len(cities))]
		artist := artists[rng.Intn(len(artists))]
		title := fmt.Sprintf("%s %d %s", artist, now.Year()+rng.Intn(2), tours[rng.Intn(len(tours))])

		// Performances fall between two weeks ago and five months ahead.
		first := now.AddDate(0, 0, rng.Intn(165)-14)
		shows := 1 + rng.Intn(3)
		performances := make([]string, 0, shows)
		for s := 0; s < shows; s++ {
			day := first.AddDate(0, 0, s)
			performances = append(performances, scheduleEntry(rng, day))
		}

		// Ticketing opens one to eight weeks before the first show.
		opens := first.AddDate(0, 0, -7*(1+rng.Intn(8)))
		ticketing := []string{scheduleEntry(rng, opens)}
		if rng.Intn(3) == 0 {
			ticketing = append(ticketing, scheduleEntry(rng, opens.AddDate(0, 0, 3)))
		}

		if rng.Float64() < unparseableRate {
			performances = []string{"待公布"}
			if rng.Intn(2) == 0 {
				ticketing = []string{"-"}
			}
		}

		cityVenues := venues[city]
		doc := mongodoc.ConcertDocument{
			ID:               primitive.NewObjectID(),
			Title:            title,
			TicketingDates:   ticketing,
			Prices:           append([]float64(nil), priceTiers[rng.Intn(len(priceTiers))]...),
			PerformanceDates: performances,
			Locations:        []string{cityVenues[rng.Intn(len(cityVenues))]},
			City:             city,
			Introduction:     fmt.Sprintf("%s 將於%s開唱，詳細資訊請見官方公告。", artist, city),
			Website:          "https://tixcraft.com",
			URL:              fmt.Sprintf("https://tixcraft.com/activity/detail/%02d_%s", now.Year()%100, randomSlug(rng)),
			Pin:              randomSlug(rng),
			SortTimestamp:    now.Add(-time.Duration(rng.Intn(60*24)) * time.Hour).UTC(),
		}
		doc.PerformanceTimes = domain.ParseScheduleTimes(doc.PerformanceDates, loc)
		docs = append(docs, doc)
	}
	return docs
}

// scheduleEntry formats day as YYYY/MM/DD, adding an evening start time two times out of three.
func scheduleEntry(rng *rand.Rand, day time.Time) string {
	if rng.Intn(3) == 0 {
		return day.Format("2006/01/02")
	}
	hour := 17 + rng.Intn(4)
	minute := []int{0, 30}[rng.Intn(2)]
	return fmt.Sprintf("%s %02d:%02d", day.Format("2006/01/02"), hour, minute)
}

func randomSlug(rng *rand.Rand) string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 8)
	for i := range b {
		b[i] = letters[rng.Intn(len(letters))]
	}
	return string(b)
}

func insertMany(ctx context.Context, col *mongo.Collection, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := col.InsertMany(ctx, docs)
	return err
}

func toAnySlice[T any](in []T) []interface{} {
	out := make([]interface{}, len(in))
	for i := range in {
		out[i] = in[i]
	}
	return out
}
