package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Préfixes de numérotation des documents.
const (
	PrefixDevis    = "DEV"
	PrefixCommande = "CMD"
	PrefixFacture  = "FAC"
)

var (
	numberingOnce sync.Once
	numberingNode *snowflake.Node
)

func node() *snowflake.Node {
	numberingOnce.Do(func() {
		n, err := snowflake.NewNode(1)
		if err != nil {
			panic(fmt.Sprintf("snowflake node: %v", err))
		}
		numberingNode = n
	})
	return numberingNode
}

// NextNumero génère un numéro de document de la forme
// PREFIX-AAAA-NNNNNN. Le suffixe dérive d'un identifiant snowflake.
func NextNumero(prefix string) string {
	id := node().Generate()
	return fmt.Sprintf("%s-%d-%06d", prefix, time.Now().Year(), id.Int64()%1000000)
}
