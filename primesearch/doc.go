// Package primesearch fornece adapters HTTP (net/http) para a busca de primos prováveis.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos da busca (sem dependência de net/http)
//   - application: casos de uso (coordenação dos workers, vagas de busca, admissão) sem net/http
//   - infra: implementações concretas (crypto/rand, filtro, Miller-Rabin, sinks, stats)
//   - primesearch (este pacote): handler de streaming + middlewares + tradução para status/headers
//
// Fluxo no servidor:
//
//   1) Extrai a chave do cliente (IP/header/XFF) e decide a admissão (429 se bloqueado)
//   2) Reserva uma vaga de busca (503 se não houver)
//   3) Valida bits/count (400 se inválidos)
//   4) Roda a busca, escrevendo "<index>: <value>" a cada primo encontrado
//
// Variáveis de ambiente do binário prime-server (cmd/prime-server) controlam o comportamento,
// como SEARCH_WORKERS, CONCURRENCY_MAX, RATE_RPS e STATS_REDIS_ADDR.
package primesearch
