package aggregator

// Operation names, also used as request metric labels
const (
	OpSubgraphs        = "Subgraphs"
	OpStakeDelegated   = "StakeDelegated"
	OpStakeUndelegated = "StakeUndelegated"
	OpGraphNetwork     = "GraphNetwork"
	OpActiveDelegators = "ActiveDelegators"
	OpDailyData        = "DailyData"
)

// ActiveStakeThreshold is the exclusive lower bound on staked tokens for an active delegator
const ActiveStakeThreshold = "0"

const subgraphsQuery = `query Subgraphs($first: Int!, $skip: Int!, $allocations: Int!) {
  subgraphs(first: $first, skip: $skip, orderBy: id, where: { currentVersion_not: null }) {
    id
    currentVersion {
      subgraphDeployment {
        manifest {
          network
        }
        indexerAllocations(first: $allocations, where: { status: Active }) {
          indexer {
            id
          }
        }
      }
    }
  }
}`

const stakeDelegatedQuery = `query StakeDelegated($first: Int!, $skip: Int!) {
  events: stakeDelegateds(first: $first, skip: $skip, orderBy: blockTimestamp, orderDirection: desc) {
    id
    indexer
    delegator
    tokens
    blockTimestamp
    transactionHash
  }
}`

const stakeUndelegatedQuery = `query StakeUndelegated($first: Int!, $skip: Int!) {
  events: stakeDelegatedLockeds(first: $first, skip: $skip, orderBy: blockTimestamp, orderDirection: desc) {
    id
    indexer
    delegator
    tokens
    blockTimestamp
    transactionHash
  }
}`

const graphNetworkQuery = `query GraphNetwork {
  graphNetwork(id: "1") {
    totalIndexingRewards
    totalIndexingIndexerRewards
    totalIndexingDelegatorRewards
    delegatorCount
    activeDelegatorCount
  }
}`

const activeDelegatorsQuery = `query ActiveDelegators($first: Int!, $skip: Int!, $threshold: BigInt!) {
  delegators(first: $first, skip: $skip, orderBy: id, where: { stakedTokens_gt: $threshold }) {
    id
  }
}`

const dailyDataQuery = `query DailyData($day: Int!) {
  graphNetworkDailyDatas(first: 1, where: { dayNumber: $day }) {
    dayNumber
    totalIndexingRewards
    totalIndexingIndexerRewards
    totalIndexingDelegatorRewards
  }
}`
