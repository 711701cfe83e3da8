// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - CryptoSource: candidatos aleatórios a partir de crypto/rand
//   - SmallPrimeFilter: descarte barato por fatores primos pequenos
//   - MillerRabin: teste probabilístico de primalidade
//   - Sinks: writer, channel, Redis (lista), AMQP (exchange), multi
//   - Stats: memória, Redis (hashes) e Prometheus
//   - ChanPool / Store: vagas de busca e rate limit por cliente (golang.org/x/time/rate)
package infra
